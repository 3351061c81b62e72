// Package pipeline runs the three stages of one aggregation run in order:
// load a batch, reduce it to its highest High, publish the result.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guttosm/peakpulse/internal/domain/models"
	"github.com/guttosm/peakpulse/internal/errors"
	"github.com/guttosm/peakpulse/internal/ingestion"
	"github.com/guttosm/peakpulse/internal/logger"
	"github.com/guttosm/peakpulse/internal/publish"
	"github.com/guttosm/peakpulse/internal/service"
)

// Run describes one pipeline execution.
//
// Stage is StageDone or StageFailed once Run returns. FailedAt names the
// stage that failed and is empty on success. Aggregation is only set when
// the aggregating stage completed.
type Run struct {
	ID          string
	SourceKey   string
	Stage       Stage
	FailedAt    Stage
	Records     int
	Aggregation models.Aggregation
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Pipeline composes a Loader and a Publisher around the Aggregate reduction.
// It keeps no state between runs.
type Pipeline struct {
	loader    *ingestion.Loader
	publisher *publish.Publisher
	now       func() time.Time
}

func New(loader *ingestion.Loader, publisher *publish.Publisher) *Pipeline {
	return &Pipeline{
		loader:    loader,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run executes the stages strictly in order. The first failing stage ends
// the run; its error is returned unchanged so callers can inspect its code.
func (p *Pipeline) Run(ctx context.Context, sourceKey string) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		SourceKey: sourceKey,
		Stage:     StageIdle,
		StartedAt: p.now(),
	}
	log := logger.L().With().Str("run_id", run.ID).Str("source_key", sourceKey).Logger()

	p.advance(&run, StageLoading, &log)
	records, err := p.loader.Load(ctx, sourceKey)
	if err != nil {
		return p.fail(&run, err, &log)
	}
	run.Records = len(records)

	p.advance(&run, StageAggregating, &log)
	agg, err := service.Aggregate(records)
	if err != nil {
		return p.fail(&run, err, &log)
	}
	run.Aggregation = agg

	p.advance(&run, StagePublishing, &log)
	if err := p.publisher.Publish(ctx, agg); err != nil {
		return p.fail(&run, err, &log)
	}

	p.advance(&run, StageDone, &log)
	run.FinishedAt = p.now()
	return run, nil
}

func (p *Pipeline) advance(run *Run, to Stage, log *zerolog.Logger) {
	if !CanTransition(run.Stage, to) {
		panic(fmt.Sprintf("pipeline: illegal transition %s -> %s", run.Stage, to))
	}
	log.Debug().Str("from", string(run.Stage)).Str("to", string(to)).Msg("stage transition")
	run.Stage = to
}

func (p *Pipeline) fail(run *Run, err error, log *zerolog.Logger) (Run, error) {
	run.FailedAt = run.Stage
	p.advance(run, StageFailed, log)
	run.FinishedAt = p.now()
	log.Debug().Err(err).Str("stage", string(run.FailedAt)).Str("code", errors.GetCode(err).String()).Msg("stage failed")
	return *run, err
}
