package dto

import "github.com/guttosm/peakpulse/internal/domain/models"

// AggregateResponse is the JSON body of GET /api/v1/aggregate.
//
// Both fields are the exact strings stored in the key-value store.
type AggregateResponse struct {
	Date string `json:"date" example:"06/04/2020"` // Storage key (MM/DD/YYYY)
	High string `json:"high" example:"100.50"`     // Highest intraday price of the batch
}

// TriggerRunRequest is the JSON body of POST /api/v1/runs.
type TriggerRunRequest struct {
	SourceKey string `json:"source_key" binding:"required" example:"prefix/stock_9.csv"`
}

// RunResponse describes one pipeline run.
type RunResponse struct {
	RunID     string `json:"run_id" example:"5b0c3c3e-5d8b-4f4f-9f0e-0d4a1f9c2b7a"`
	SourceKey string `json:"source_key" example:"prefix/stock_9.csv"`
	Stage     string `json:"stage" example:"done"`
	Records   int    `json:"records" example:"250"`
	Date      string `json:"date,omitempty" example:"06/04/2020"`
	High      string `json:"high,omitempty" example:"100.50"`
}

// RunsResponse is the JSON body of GET /api/v1/runs, newest run first.
type RunsResponse struct {
	Runs []models.RunRecord `json:"runs"`
}
