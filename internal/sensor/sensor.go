// Package sensor polls the object store for batches that have not been
// processed yet and runs the pipeline for each of them.
package sensor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/peakpulse/internal/logger"
	"github.com/guttosm/peakpulse/internal/pipeline"
)

// SkipNoNewKeys is the skip reason of a tick that found nothing to run.
const SkipNoNewKeys = "no new source keys found"

// KeyLister lists object keys under a prefix.
type KeyLister interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// Ledger answers whether a source key was already processed successfully.
type Ledger interface {
	HasSucceeded(ctx context.Context, sourceKey string) (bool, error)
}

// Trigger starts one pipeline run.
type Trigger interface {
	Run(ctx context.Context, sourceKey string) (pipeline.Run, error)
}

// Config holds sensor settings.
type Config struct {
	Prefix   string
	Interval time.Duration
}

// TickResult summarizes one evaluation.
type TickResult struct {
	Listed     int
	Triggered  int
	Failed     int
	SkipReason string
}

type Sensor struct {
	cfg     Config
	lister  KeyLister
	ledger  Ledger
	trigger Trigger
	log     zerolog.Logger
}

func New(cfg Config, lister KeyLister, ledger Ledger, trigger Trigger) *Sensor {
	return &Sensor{
		cfg:     cfg,
		lister:  lister,
		ledger:  ledger,
		trigger: trigger,
		log:     logger.Component("sensor").With().Str("prefix", cfg.Prefix).Logger(),
	}
}

// Run evaluates the sensor immediately and then every Interval until ctx is
// done. Tick errors are logged and do not stop the loop.
func (s *Sensor) Run(ctx context.Context) error {
	if s.cfg.Interval <= 0 {
		return fmt.Errorf("sensor interval must be positive, got %s", s.cfg.Interval)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.cfg.Interval).Msg("sensor started")
	for {
		if _, err := s.Tick(ctx); err != nil && ctx.Err() == nil {
			s.log.Error().Err(err).Msg("sensor tick failed")
		}
		select {
		case <-ctx.Done():
			s.log.Info().Msg("sensor stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Tick lists the keys under the prefix and runs the pipeline, one key at a
// time, for every key without a successful ledger entry. A failed run does
// not stop the remaining keys; the key is retried on a later tick.
func (s *Sensor) Tick(ctx context.Context) (TickResult, error) {
	var res TickResult

	keys, err := s.lister.ListKeys(ctx, s.cfg.Prefix)
	if err != nil {
		return res, fmt.Errorf("list keys under %q: %w", s.cfg.Prefix, err)
	}
	res.Listed = len(keys)

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		done, err := s.ledger.HasSucceeded(ctx, key)
		if err != nil {
			return res, fmt.Errorf("check ledger for %q: %w", key, err)
		}
		if done {
			continue
		}

		res.Triggered++
		if _, err := s.trigger.Run(ctx, key); err != nil {
			res.Failed++
			s.log.Warn().Err(err).Str("source_key", key).Msg("sensor run failed")
		}
	}

	if res.Triggered == 0 {
		res.SkipReason = SkipNoNewKeys
		s.log.Debug().Int("listed", res.Listed).Msg(SkipNoNewKeys)
	}
	return res, nil
}
