package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/guttosm/peakpulse/internal/domain/models"
	"github.com/guttosm/peakpulse/internal/errors"
)

// SQL drivers understood by NewRunsRepository.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const runsTable = "pipeline_runs"

var runColumns = []string{
	"run_id", "source_key", "status", "stage", "attempts",
	"agg_date", "agg_high", "error_message", "started_at", "finished_at",
}

// RunsRepository defines the contract of the run ledger.
type RunsRepository interface {
	RecordRun(ctx context.Context, run models.RunRecord) error
	HasSucceeded(ctx context.Context, sourceKey string) (bool, error)
	ListRuns(ctx context.Context, limit int) ([]models.RunRecord, error)
	Ping(ctx context.Context) error
}

type runsRepository struct {
	db *sql.DB
	sq squirrel.StatementBuilderType
}

// NewRunsRepository returns a ledger over db. driver selects the placeholder
// style: $n for postgres, ? otherwise.
func NewRunsRepository(db *sql.DB, driver string) RunsRepository {
	format := squirrel.PlaceholderFormat(squirrel.Question)
	if driver == DriverPostgres {
		format = squirrel.Dollar
	}
	return &runsRepository{db: db, sq: squirrel.StatementBuilder.PlaceholderFormat(format)}
}

// RecordRun inserts one ledger row. Timestamps are stored as unix milliseconds.
func (r *runsRepository) RecordRun(ctx context.Context, run models.RunRecord) error {
	query, args, err := r.sq.
		Insert(runsTable).
		Columns(runColumns...).
		Values(
			run.RunID, run.SourceKey, string(run.Status), run.Stage, run.Attempts,
			run.AggDate, run.AggHigh, run.Error, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(),
		).
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeLedgerUnavailable, "build insert", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(errors.ErrCodeLedgerUnavailable, err, "record run %s", run.RunID)
	}
	return nil
}

// HasSucceeded reports whether any run of sourceKey finished successfully.
func (r *runsRepository) HasSucceeded(ctx context.Context, sourceKey string) (bool, error) {
	query, args, err := r.sq.
		Select("COUNT(1)").
		From(runsTable).
		Where(squirrel.Eq{"source_key": sourceKey, "status": string(models.RunSucceeded)}).
		ToSql()
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeLedgerUnavailable, "build select", err)
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, errors.Wrapf(errors.ErrCodeLedgerUnavailable, err, "lookup %q", sourceKey)
	}
	return n > 0, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive limit
// falls back to 20.
func (r *runsRepository) ListRuns(ctx context.Context, limit int) ([]models.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := r.sq.
		Select(runColumns...).
		From(runsTable).
		OrderBy("started_at DESC", "run_id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLedgerUnavailable, "build select", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLedgerUnavailable, "list runs", err)
	}
	defer rows.Close()

	runs := make([]models.RunRecord, 0, limit)
	for rows.Next() {
		var (
			run               models.RunRecord
			status            string
			started, finished int64
		)
		if err := rows.Scan(
			&run.RunID, &run.SourceKey, &status, &run.Stage, &run.Attempts,
			&run.AggDate, &run.AggHigh, &run.Error, &started, &finished,
		); err != nil {
			return nil, errors.Wrap(errors.ErrCodeLedgerUnavailable, "scan run", err)
		}
		run.Status = models.RunStatus(status)
		run.StartedAt = time.UnixMilli(started).UTC()
		run.FinishedAt = time.UnixMilli(finished).UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLedgerUnavailable, "iterate runs", err)
	}
	return runs, nil
}

func (r *runsRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
