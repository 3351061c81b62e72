package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/peakpulse/internal/domain/models"
	"github.com/guttosm/peakpulse/internal/errors"
	"github.com/guttosm/peakpulse/internal/pipeline"
)

type recordingTrigger struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingTrigger) Run(_ context.Context, key string) (pipeline.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	return pipeline.Run{SourceKey: key, Stage: pipeline.StageDone}, nil
}

func (r *recordingTrigger) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

func TestScheduler_FiresJobs(t *testing.T) {
	trig := &recordingTrigger{}
	s, err := New(trig, []models.Job{{Name: "fast", SourceKey: "prefix/stock_9.csv", Cron: "@every 1s"}})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Jobs())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return trig.count() >= 1 }, 5*time.Second, 50*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, "prefix/stock_9.csv", trig.keys[0])
}

func TestScheduler_RunJob(t *testing.T) {
	trig := &recordingTrigger{}
	s, err := New(trig, []models.Job{{Name: "daily", SourceKey: "k", Cron: "@daily"}})
	require.NoError(t, err)

	run, err := s.RunJob(context.Background(), "daily")
	require.NoError(t, err)
	assert.Equal(t, "k", run.SourceKey)

	_, err = s.RunJob(context.Background(), "nope")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidSource))
}

func TestScheduler_RejectsBadCron(t *testing.T) {
	_, err := New(&recordingTrigger{}, []models.Job{{Name: "bad", SourceKey: "k", Cron: "61 * * * *"}})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}
