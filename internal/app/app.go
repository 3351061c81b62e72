package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/peakpulse/config"
	"github.com/guttosm/peakpulse/internal/api"
	"github.com/guttosm/peakpulse/internal/ingestion"
	"github.com/guttosm/peakpulse/internal/logger"
	"github.com/guttosm/peakpulse/internal/pipeline"
	"github.com/guttosm/peakpulse/internal/publish"
	"github.com/guttosm/peakpulse/internal/runner"
	"github.com/guttosm/peakpulse/internal/schedule"
	"github.com/guttosm/peakpulse/internal/sensor"
	"github.com/guttosm/peakpulse/internal/service"
)

// App holds the wired components of one process.
//
// Scheduler is nil when no jobs file is configured and Sensor is nil when
// the sensor is disabled.
type App struct {
	Router    *gin.Engine
	Runner    *runner.Runner
	Scheduler *schedule.Scheduler
	Sensor    *sensor.Sensor
}

// InitializeApp sets up all application dependencies from config.AppConfig
// and returns the wired App, a cleanup function for graceful shutdown, and
// any error encountered during initialization.
//
// Responsibilities:
//   - Opens the object store and key-value store of the selected binding.
//   - Connects to the run ledger (SQLite or PostgreSQL) and migrates it.
//   - Builds the pipeline and the Runner every trigger goes through.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Loads scheduled jobs and the sensor when configured.
//
// On error every resource opened so far is released and cleanup is nil.
func InitializeApp(ctx context.Context) (*App, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*App, func(), error) {
		cleanup()
		return nil, nil, err
	}

	bindings, err := openBindings(ctx, cfg)
	if err != nil {
		return fail(fmt.Errorf("failed to initialize %s binding: %w", cfg.Pipeline.Binding, err))
	}
	closers = append(closers, bindings.Close)

	ledger, db, err := openLedger(ctx, cfg)
	if err != nil {
		return fail(fmt.Errorf("failed to initialize %s ledger: %w", cfg.Ledger.Driver, err))
	}
	closers = append(closers, func() { _ = db.Close() })

	// Pipeline and the single Runner shared by every trigger
	p := pipeline.New(ingestion.NewLoader(bindings.Objects), publish.NewPublisher(bindings.Values))
	r := runner.New(p, ledger, cfg.Pipeline.Retry)

	// HTTP layer
	svc := service.NewAggregateService(bindings.Values)
	handler := api.NewHandler(svc, r, ledger)
	router := api.NewRouter(handler)

	api.NewHealthHandler(
		api.Check{Name: "kvstore", Ping: bindings.Values.Ping},
		api.Check{Name: "ledger", Ping: ledger.Ping},
	).Register(router)

	application := &App{Router: router, Runner: r}

	if cfg.Pipeline.JobsFile != "" {
		jobs, err := schedule.LoadJobs(cfg.Pipeline.JobsFile)
		if err != nil {
			return fail(err)
		}
		sched, err := schedule.New(r, jobs)
		if err != nil {
			return fail(err)
		}
		application.Scheduler = sched
	}

	if cfg.Sensor.Enabled {
		application.Sensor = sensor.New(
			sensor.Config{Prefix: cfg.Sensor.Prefix, Interval: cfg.Sensor.Interval},
			bindings.Objects, ledger, r,
		)
	}

	logger.L().Info().
		Str("binding", cfg.Pipeline.Binding).
		Str("ledger", cfg.Ledger.Driver).
		Bool("retry", cfg.Pipeline.Retry).
		Bool("scheduler", application.Scheduler != nil).
		Bool("sensor", application.Sensor != nil).
		Msg("application initialized")

	return application, cleanup, nil
}
