package pipeline

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Stage
		want     bool
	}{
		{StageIdle, StageLoading, true},
		{StageLoading, StageAggregating, true},
		{StageAggregating, StagePublishing, true},
		{StagePublishing, StageDone, true},
		{StageLoading, StageFailed, true},
		{StagePublishing, StageFailed, true},
		{StageIdle, StageFailed, false},
		{StageIdle, StagePublishing, false},
		{StageLoading, StagePublishing, false},
		{StageDone, StageLoading, false},
		{StageFailed, StageLoading, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Fatalf("%s -> %s: want %v got %v", c.from, c.to, c.want, got)
		}
	}
}

func TestStageTerminal(t *testing.T) {
	for _, s := range []Stage{StageIdle, StageLoading, StageAggregating, StagePublishing} {
		if s.Terminal() {
			t.Fatalf("%s must not be terminal", s)
		}
	}
	if !StageDone.Terminal() || !StageFailed.Terminal() {
		t.Fatalf("done and failed must be terminal")
	}
}
