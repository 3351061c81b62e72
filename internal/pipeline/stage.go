package pipeline

// Stage is the position of a run in the pipeline state machine.
//
//	idle -> loading -> aggregating -> publishing -> done
//
// Any of loading, aggregating or publishing may move to failed. done and
// failed are terminal.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageLoading     Stage = "loading"
	StageAggregating Stage = "aggregating"
	StagePublishing  Stage = "publishing"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

var transitions = map[Stage][]Stage{
	StageIdle:        {StageLoading},
	StageLoading:     {StageAggregating, StageFailed},
	StageAggregating: {StagePublishing, StageFailed},
	StagePublishing:  {StageDone, StageFailed},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to Stage) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends a run.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}
