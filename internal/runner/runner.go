// Package runner is the single entry point for triggering pipeline runs.
// The scheduler, the sensor and the HTTP API all go through a Runner.
package runner

import (
	"context"
	"time"

	"github.com/guttosm/peakpulse/internal/domain/models"
	"github.com/guttosm/peakpulse/internal/errors"
	"github.com/guttosm/peakpulse/internal/logger"
	"github.com/guttosm/peakpulse/internal/pipeline"
	"github.com/guttosm/peakpulse/internal/publish"
	"github.com/guttosm/peakpulse/internal/storage"
)

const ledgerTimeout = 5 * time.Second

// Executor runs the pipeline once.
type Executor interface {
	Run(ctx context.Context, sourceKey string) (pipeline.Run, error)
}

// Runner serializes pipeline runs within the process, retries transient
// failures once when enabled, and records every call in the run ledger.
type Runner struct {
	slot   chan struct{}
	exec   Executor
	ledger storage.RunsRepository
	retry  bool
}

// New returns a Runner. ledger may be nil, in which case runs are not
// recorded.
func New(exec Executor, ledger storage.RunsRepository, retry bool) *Runner {
	return &Runner{slot: make(chan struct{}, 1), exec: exec, ledger: ledger, retry: retry}
}

// Run executes one pipeline run for sourceKey, blocking while another run is
// in progress. If ctx is done before the run can start, Run returns ctx.Err()
// without executing or recording anything. With retry enabled, a run failing with SourceUnavailable or
// SinkUnavailable is executed once more from the start; other failures are
// returned immediately.
func (r *Runner) Run(ctx context.Context, sourceKey string) (pipeline.Run, error) {
	select {
	case r.slot <- struct{}{}:
	case <-ctx.Done():
		return pipeline.Run{SourceKey: sourceKey}, ctx.Err()
	}
	defer func() { <-r.slot }()
	if err := ctx.Err(); err != nil {
		return pipeline.Run{SourceKey: sourceKey}, err
	}

	log := logger.Component("runner").With().Str("source_key", sourceKey).Logger()
	started := time.Now().UTC()

	attempts := 1
	run, err := r.exec.Run(ctx, sourceKey)
	if err != nil && r.retry && errors.GetCode(err).Transient() && ctx.Err() == nil {
		log.Warn().Err(err).Str("run_id", run.ID).Msg("transient failure, retrying run")
		attempts++
		run, err = r.exec.Run(ctx, sourceKey)
	}

	r.record(ctx, run, attempts, started, err)

	if err != nil {
		log.Error().Err(err).
			Str("run_id", run.ID).
			Str("stage", string(run.FailedAt)).
			Str("code", errors.GetCode(err).String()).
			Int("attempts", attempts).
			Msg("pipeline run failed")
		return run, err
	}

	log.Info().
		Str("run_id", run.ID).
		Int("records", run.Records).
		Int("attempts", attempts).
		Dur("elapsed", run.FinishedAt.Sub(started)).
		Msg("pipeline run succeeded")
	return run, nil
}

// record writes the ledger entry. Failures are logged and never change the
// outcome of the run.
func (r *Runner) record(ctx context.Context, run pipeline.Run, attempts int, started time.Time, runErr error) {
	if r.ledger == nil {
		return
	}

	rec := ToRecord(run, attempts, runErr)
	rec.StartedAt = started

	// The ledger is written even when the caller's context is already done.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerTimeout)
	defer cancel()

	if err := r.ledger.RecordRun(wctx, rec); err != nil {
		log := logger.Component("runner")
		log.Error().Err(err).Str("run_id", rec.RunID).Msg("ledger write failed")
	}
}

// ToRecord converts a finished run into its ledger row.
func ToRecord(run pipeline.Run, attempts int, runErr error) models.RunRecord {
	rec := models.RunRecord{
		RunID:      run.ID,
		SourceKey:  run.SourceKey,
		Attempts:   attempts,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
	if runErr != nil {
		rec.Status = models.RunFailed
		rec.Stage = string(run.FailedAt)
		rec.Error = runErr.Error()
		return rec
	}
	rec.Status = models.RunSucceeded
	rec.Stage = string(run.Stage)
	rec.AggDate = publish.FormatKey(run.Aggregation.Date)
	rec.AggHigh = publish.FormatHigh(run.Aggregation.High)
	return rec
}
