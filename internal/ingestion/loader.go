package ingestion

import (
	"context"
	"strings"

	"github.com/guttosm/peakpulse/internal/domain/models"
	"github.com/guttosm/peakpulse/internal/errors"
	"github.com/guttosm/peakpulse/internal/logger"
)

// ObjectStore is the object-store capability: it returns the raw rows of the
// batch stored under key, already split into columns.
type ObjectStore interface {
	GetData(ctx context.Context, key string) ([][]string, error)
}

// Loader reads one batch of stock records from an ObjectStore.
type Loader struct {
	store ObjectStore
}

// NewLoader returns a Loader reading from store.
func NewLoader(store ObjectStore) *Loader {
	return &Loader{store: store}
}

// Load fetches the batch at sourceKey and parses every row, preserving row
// order.
//
// It fails with:
//   - InvalidSource when sourceKey is blank (the store is not called)
//   - SourceUnavailable when the store read fails
//   - MalformedRecord when any row does not fit the schema; no partial
//     batch is returned
//
// An optional first row naming the columns (date,open,high,low,close,volume)
// is skipped.
func (l *Loader) Load(ctx context.Context, sourceKey string) ([]models.StockRecord, error) {
	if strings.TrimSpace(sourceKey) == "" {
		return nil, errors.New(errors.ErrCodeInvalidSource, "source identifier is empty")
	}

	rows, err := l.store.GetData(ctx, sourceKey)
	if err != nil {
		if errors.GetCode(err) != errors.ErrCodeUnknown {
			return nil, err
		}
		return nil, errors.Wrapf(errors.ErrCodeSourceUnavailable, err, "fetch %q", sourceKey)
	}

	start := 0
	if len(rows) > 0 && isHeader(rows[0]) {
		start = 1
	}

	records := make([]models.StockRecord, 0, len(rows)-start)
	for i := start; i < len(rows); i++ {
		rec, err := rowToRecord(rows[i])
		if err != nil {
			// Any bad row fails the whole batch.
			return nil, errors.Wrapf(errors.ErrCodeMalformedRecord, err, "source %q row %d", sourceKey, i+1)
		}
		records = append(records, rec)
	}

	logger.L().Debug().Str("source_key", sourceKey).Int("rows", len(records)).Msg("batch loaded")
	return records, nil
}
