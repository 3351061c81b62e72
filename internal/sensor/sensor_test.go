package sensor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/guttosm/peakpulse/internal/mocks"
	"github.com/guttosm/peakpulse/internal/pipeline"
)

type staticLister struct {
	keys []string
	err  error
}

func (l staticLister) ListKeys(context.Context, string) ([]string, error) { return l.keys, l.err }

type fakeTrigger struct {
	mu   sync.Mutex
	keys []string
	fail map[string]bool
}

func (f *fakeTrigger) Run(_ context.Context, key string) (pipeline.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	if f.fail[key] {
		return pipeline.Run{}, errors.New("boom")
	}
	return pipeline.Run{SourceKey: key, Stage: pipeline.StageDone}, nil
}

func (f *fakeTrigger) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

func TestTick_RunsOnlyUnseenKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockRunsRepository(ctrl)
	ledger.EXPECT().HasSucceeded(gomock.Any(), "prefix/a.csv").Return(true, nil)
	ledger.EXPECT().HasSucceeded(gomock.Any(), "prefix/b.csv").Return(false, nil)
	ledger.EXPECT().HasSucceeded(gomock.Any(), "prefix/c.csv").Return(false, nil)

	trig := &fakeTrigger{fail: map[string]bool{"prefix/b.csv": true}}
	s := New(Config{Prefix: "prefix", Interval: time.Second},
		staticLister{keys: []string{"prefix/a.csv", "prefix/b.csv", "prefix/c.csv"}}, ledger, trig)

	res, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TickResult{Listed: 3, Triggered: 2, Failed: 1}, res)
	assert.Equal(t, []string{"prefix/b.csv", "prefix/c.csv"}, trig.calls())
}

func TestTick_SkipReasonWhenNothingNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockRunsRepository(ctrl)
	ledger.EXPECT().HasSucceeded(gomock.Any(), "prefix/a.csv").Return(true, nil)

	trig := &fakeTrigger{}
	s := New(Config{Prefix: "prefix", Interval: time.Second}, staticLister{keys: []string{"prefix/a.csv"}}, ledger, trig)

	res, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SkipNoNewKeys, res.SkipReason)
	assert.Empty(t, trig.calls())

	empty := New(Config{Prefix: "prefix", Interval: time.Second}, staticLister{}, ledger, trig)
	res, err = empty.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SkipNoNewKeys, res.SkipReason)
}

func TestTick_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockRunsRepository(ctrl)
	trig := &fakeTrigger{}

	s := New(Config{Prefix: "prefix"}, staticLister{err: errors.New("access denied")}, ledger, trig)
	_, err := s.Tick(context.Background())
	assert.ErrorContains(t, err, "access denied")

	ledger.EXPECT().HasSucceeded(gomock.Any(), "k").Return(false, errors.New("db down"))
	s = New(Config{Prefix: "prefix"}, staticLister{keys: []string{"k"}}, ledger, trig)
	_, err = s.Tick(context.Background())
	assert.ErrorContains(t, err, "db down")
	assert.Empty(t, trig.calls())
}

func TestRun_TicksUntilCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockRunsRepository(ctrl)
	ledger.EXPECT().HasSucceeded(gomock.Any(), "k").Return(false, nil).MinTimes(2)

	trig := &fakeTrigger{}
	s := New(Config{Prefix: "prefix", Interval: 10 * time.Millisecond}, staticLister{keys: []string{"k"}}, ledger, trig)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return len(trig.calls()) >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("sensor did not stop")
	}
}

func TestRun_RejectsZeroInterval(t *testing.T) {
	s := New(Config{Prefix: "prefix"}, staticLister{}, nil, &fakeTrigger{})
	assert.Error(t, s.Run(context.Background()))
}
