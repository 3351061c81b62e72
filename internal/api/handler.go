package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/peakpulse/internal/domain/dto"
	"github.com/guttosm/peakpulse/internal/domain/models"
	"github.com/guttosm/peakpulse/internal/middleware"
	"github.com/guttosm/peakpulse/internal/pipeline"
	"github.com/guttosm/peakpulse/internal/publish"
	"github.com/guttosm/peakpulse/internal/service"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// dateLayouts accepted by the date query parameter.
var dateLayouts = []string{"2006-01-02", publish.KeyLayout}

// RunTrigger starts a pipeline run. *runner.Runner satisfies it.
type RunTrigger interface {
	Run(ctx context.Context, sourceKey string) (pipeline.Run, error)
}

// RunLister reads the run ledger.
type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]models.RunRecord, error)
}

// Handler provides the HTTP handlers of the aggregation API.
//
// Responsibilities:
//   - Validate query parameters and request bodies
//   - Read published aggregations back from the key-value store
//   - Trigger pipeline runs and expose the run ledger
//   - Map coded pipeline errors to HTTP status codes
type Handler struct {
	svc    service.AggregateService
	runs   RunTrigger
	ledger RunLister
}

// NewHandler constructs a Handler.
func NewHandler(svc service.AggregateService, runs RunTrigger, ledger RunLister) *Handler {
	return &Handler{svc: svc, runs: runs, ledger: ledger}
}

// GetAggregate godoc
// @Summary      Get the stored aggregation for a date
// @Description  Returns the highest High published for the given date
// @Tags         aggregate
// @Produce      json
// @Param        date  query     string  true  "Date as YYYY-MM-DD or MM/DD/YYYY" example(2020-06-04)
// @Success      200   {object}  dto.AggregateResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse      "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse      "Not Found"
// @Failure      502   {object}  dto.ErrorResponse      "Key-value store unavailable"
// @Router       /api/v1/aggregate [get]
func (h *Handler) GetAggregate(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("date"))
	if raw == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "date is required", nil)
		return
	}
	date, ok := parseDate(raw)
	if !ok {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD or MM/DD/YYYY", nil)
		return
	}

	agg, err := h.svc.GetAggregate(c.Request.Context(), date)
	if err != nil {
		middleware.AbortWithError(c, middleware.StatusForError(err), "failed to fetch aggregation", err)
		return
	}
	if agg == nil {
		middleware.AbortWithError(c, http.StatusNotFound, "no data found", nil)
		return
	}

	c.JSON(http.StatusOK, dto.AggregateResponse{
		Date: publish.FormatKey(agg.Date),
		High: publish.FormatHigh(agg.High),
	})
}

// ListRuns godoc
// @Summary      List recent pipeline runs
// @Tags         runs
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of runs (1-100)" default(20)
// @Success      200    {object}  dto.RunsResponse   "Success"
// @Failure      400    {object}  dto.ErrorResponse  "Bad Request"
// @Failure      503    {object}  dto.ErrorResponse  "Ledger unavailable"
// @Router       /api/v1/runs [get]
func (h *Handler) ListRuns(c *gin.Context) {
	limit := defaultRunsLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxRunsLimit {
			middleware.AbortWithError(c, http.StatusBadRequest, "limit must be an integer between 1 and 100", err)
			return
		}
		limit = n
	}

	runs, err := h.ledger.ListRuns(c.Request.Context(), limit)
	if err != nil {
		middleware.AbortWithError(c, middleware.StatusForError(err), "failed to list runs", err)
		return
	}
	c.JSON(http.StatusOK, dto.RunsResponse{Runs: runs})
}

// TriggerRun godoc
// @Summary      Run the pipeline for one source key
// @Description  Loads the batch, aggregates it and publishes the result. Blocks until the run ends.
// @Tags         runs
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TriggerRunRequest  true  "Source key"
// @Success      200   {object}  dto.RunResponse    "Run succeeded"
// @Failure      400   {object}  dto.ErrorResponse  "Invalid source key"
// @Failure      422   {object}  dto.ErrorResponse  "Malformed or empty batch"
// @Failure      502   {object}  dto.ErrorResponse  "Object or key-value store unavailable"
// @Router       /api/v1/runs [post]
func (h *Handler) TriggerRun(c *gin.Context) {
	var req dto.TriggerRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "source_key is required", err)
		return
	}

	run, err := h.runs.Run(c.Request.Context(), req.SourceKey)
	if err != nil {
		middleware.AbortWithError(c, middleware.StatusForError(err), "pipeline run failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.RunResponse{
		RunID:     run.ID,
		SourceKey: run.SourceKey,
		Stage:     string(run.Stage),
		Records:   run.Records,
		Date:      publish.FormatKey(run.Aggregation.Date),
		High:      publish.FormatHigh(run.Aggregation.High),
	})
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
