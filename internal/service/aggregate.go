// Package service holds the Aggregator stage and the read side of the
// aggregates it produces.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/peakpulse/internal/domain/models"
	"github.com/guttosm/peakpulse/internal/errors"
	"github.com/guttosm/peakpulse/internal/publish"
)

// Aggregate reduces a batch to the record with the highest High.
//
// The scan keeps the current maximum and replaces it only on a strictly
// greater High, so among tied maxima the earliest record wins. An empty batch
// fails with EmptyBatch.
func Aggregate(records []models.StockRecord) (models.Aggregation, error) {
	if len(records) == 0 {
		return models.Aggregation{}, errors.New(errors.ErrCodeEmptyBatch, "cannot aggregate an empty batch")
	}

	best := records[0]
	for _, r := range records[1:] {
		if r.High.GreaterThan(best.High) {
			best = r
		}
	}
	return models.Aggregation{Date: best.Date, High: best.High}, nil
}

// KeyReader is the read half of the key-value capability.
type KeyReader interface {
	GetData(ctx context.Context, key string) (string, bool, error)
}

// AggregateService reads published aggregations back from the key-value store.
type AggregateService interface {
	GetAggregate(ctx context.Context, date time.Time) (*models.Aggregation, error)
}

type aggregateService struct {
	store KeyReader
}

func NewAggregateService(store KeyReader) AggregateService {
	return &aggregateService{store: store}
}

// GetAggregate returns the aggregation stored for date, or nil when no run
// has published one.
func (s *aggregateService) GetAggregate(ctx context.Context, date time.Time) (*models.Aggregation, error) {
	key := publish.FormatKey(date)
	raw, ok, err := s.store.GetData(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeSinkUnavailable, err, "read %q", key)
	}
	if !ok {
		return nil, nil
	}
	high, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("stored value for %q is not a decimal: %w", key, err)
	}
	return &models.Aggregation{Date: date, High: high}, nil
}
