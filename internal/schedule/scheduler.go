// Package schedule fires pipeline runs on cron schedules.
package schedule

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/guttosm/peakpulse/internal/domain/models"
	"github.com/guttosm/peakpulse/internal/errors"
	"github.com/guttosm/peakpulse/internal/logger"
	"github.com/guttosm/peakpulse/internal/pipeline"
)

// Trigger starts one pipeline run. *runner.Runner satisfies it.
type Trigger interface {
	Run(ctx context.Context, sourceKey string) (pipeline.Run, error)
}

// Scheduler owns a cron instance with one entry per job.
type Scheduler struct {
	cron    *cron.Cron
	trigger Trigger
	jobs    map[string]models.Job
	log     zerolog.Logger

	mu  sync.RWMutex
	ctx context.Context
}

// New registers every job. A firing that overlaps the previous firing of the
// same job is skipped.
func New(trigger Trigger, jobs []models.Job) (*Scheduler, error) {
	s := &Scheduler{
		trigger: trigger,
		jobs:    make(map[string]models.Job, len(jobs)),
		log:     logger.Component("scheduler"),
		ctx:     context.Background(),
	}
	cl := cronLogger{log: s.log}
	s.cron = cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))

	for _, j := range jobs {
		job := j
		if _, err := s.cron.AddFunc(job.Cron, func() { s.fire(job) }); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "schedule job %q", job.Name)
		}
		s.jobs[job.Name] = job
	}
	return s, nil
}

// Run starts the cron loop and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.log.Info().Int("jobs", len(s.jobs)).Msg("scheduler started")
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
	return nil
}

// RunJob fires the named job immediately, outside its schedule.
func (s *Scheduler) RunJob(ctx context.Context, name string) (pipeline.Run, error) {
	job, ok := s.jobs[name]
	if !ok {
		return pipeline.Run{}, errors.Newf(errors.ErrCodeInvalidSource, "unknown job %q", name)
	}
	return s.trigger.Run(ctx, job.SourceKey)
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.jobs)
}

func (s *Scheduler) fire(job models.Job) {
	s.mu.RLock()
	ctx := s.ctx
	s.mu.RUnlock()

	s.log.Info().Str("job", job.Name).Str("source_key", job.SourceKey).Msg("job fired")
	if _, err := s.trigger.Run(ctx, job.SourceKey); err != nil {
		s.log.Warn().Err(err).Str("job", job.Name).Msg("scheduled run failed")
	}
}

// cronLogger adapts zerolog to cron.Logger. cron's info messages are
// per-tick noise and go to debug.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
