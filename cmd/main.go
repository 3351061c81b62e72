package main

//
//  @title           peakpulse API
//  @version         1.0
//  @description     Daily stock batch aggregation pipeline: load, aggregate, publish.
//  @termsOfService  https://github.com/guttosm/peakpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/peakpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        aggregate
//  @tag.description Published aggregations by date
//
//  @tag.name        runs
//  @tag.description Trigger pipeline runs and read the run ledger
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/peakpulse/config"
	"github.com/guttosm/peakpulse/internal/app"
	"github.com/guttosm/peakpulse/internal/logger"
	"github.com/guttosm/peakpulse/internal/pipeline"
	"github.com/guttosm/peakpulse/internal/publish"
)

const shutdownTimeout = 10 * time.Second

// newServer builds the HTTP server for serve mode.
func newServer(router http.Handler, port string) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// serveHTTP runs server until ctx is done and then shuts it down gracefully.
// It returns the listen error, if any, or the shutdown error.
func serveHTTP(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.L().Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.L().Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// loadConfig populates config.AppConfig and the global logger before any
// command runs.
func loadConfig(ctx context.Context, _ *cli.Command) (context.Context, error) {
	if err := config.LoadConfig(); err != nil {
		return ctx, err
	}
	logger.Init()
	return ctx, nil
}

// runAction executes one pipeline run and exits non-zero when it fails.
// With --job the named job of PIPELINE_JOBS_FILE is fired outside its
// schedule; otherwise --key (or PIPELINE_SOURCE_KEY) is run.
func runAction(ctx context.Context, cmd *cli.Command) error {
	job := cmd.String("job")
	key := cmd.String("key")
	if job != "" && key != "" {
		return errors.New("--job and --key are mutually exclusive")
	}
	if key == "" {
		key = config.AppConfig.Pipeline.SourceKey
	}

	application, cleanup, err := app.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("app init: %w", err)
	}
	defer cleanup()

	var run pipeline.Run
	if job != "" {
		if application.Scheduler == nil {
			return errors.New("--job needs PIPELINE_JOBS_FILE")
		}
		run, err = application.Scheduler.RunJob(ctx, job)
	} else {
		run, err = application.Runner.Run(ctx, key)
	}
	if err != nil {
		return fmt.Errorf("run %s: %w", run.ID, err)
	}

	fmt.Fprintf(cmd.Root().Writer, "%s %s %s\n", run.ID,
		publish.FormatKey(run.Aggregation.Date), publish.FormatHigh(run.Aggregation.High))
	return nil
}

// tickAction evaluates the sensor once, regardless of SENSOR_ENABLED.
func tickAction(ctx context.Context, cmd *cli.Command) error {
	config.AppConfig.Sensor.Enabled = true
	if prefix := cmd.String("prefix"); prefix != "" {
		config.AppConfig.Sensor.Prefix = prefix
	}

	application, cleanup, err := app.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("app init: %w", err)
	}
	defer cleanup()

	res, err := application.Sensor.Tick(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "listed=%d triggered=%d failed=%d %s\n",
		res.Listed, res.Triggered, res.Failed, res.SkipReason)
	if res.Failed > 0 {
		return fmt.Errorf("%d of %d runs failed", res.Failed, res.Triggered)
	}
	return nil
}

// serveAction runs the HTTP API, the scheduler and the sensor until SIGINT
// or SIGTERM.
func serveAction(ctx context.Context, cmd *cli.Command) error {
	port := cmd.String("port")
	if port == "" {
		port = config.AppConfig.Server.Port
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, cleanup, err := app.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("app init: %w", err)
	}
	defer cleanup()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveHTTP(gctx, newServer(application.Router, port))
	})
	if application.Scheduler != nil {
		g.Go(func() error { return application.Scheduler.Run(gctx) })
	}
	if application.Sensor != nil {
		g.Go(func() error { return application.Sensor.Run(gctx) })
	}

	err = g.Wait()
	logger.L().Info().Err(err).Msg("server exited")
	return err
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:   "peakpulse",
		Usage:  "Load daily stock batches, keep the highest high, publish it",
		Before: loadConfig,
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the pipeline once for one source key or scheduled job",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "key",
						Aliases: []string{"k"},
						Usage:   "Object key of the batch. Defaults to PIPELINE_SOURCE_KEY",
					},
					&cli.StringFlag{
						Name:    "job",
						Aliases: []string{"j"},
						Usage:   "Name of a job in PIPELINE_JOBS_FILE to fire now",
					},
				},
				Action: runAction,
			},
			{
				Name:  "tick",
				Usage: "Evaluate the sensor once and run every unprocessed key",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Key prefix to list. Defaults to SENSOR_PREFIX",
					},
				},
				Action: tickAction,
			},
			{
				Name:  "serve",
				Usage: "Start the REST API, the scheduler and the sensor",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port for the API server. Defaults to SERVER_PORT",
					},
				},
				Action: serveAction,
			},
		},
	}
}

// main is the entry point of the peakpulse application.
func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		logger.L().Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
