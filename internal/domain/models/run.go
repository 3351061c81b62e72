package models

import "time"

// RunStatus is the terminal outcome of a pipeline run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// RunRecord is one entry of the run ledger (table pipeline_runs).
//
// AggDate and AggHigh hold the exact key/value written to the key-value
// store and are empty for failed runs. Error holds the failure message and
// is empty for successful runs.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	SourceKey  string    `json:"source_key"`
	Status     RunStatus `json:"status"`
	Stage      string    `json:"stage"`
	Attempts   int       `json:"attempts"`
	AggDate    string    `json:"agg_date,omitempty"`
	AggHigh    string    `json:"agg_high,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
