// Package publish writes aggregations to the key-value store.
package publish

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/peakpulse/internal/domain/models"
	"github.com/guttosm/peakpulse/internal/errors"
	"github.com/guttosm/peakpulse/internal/logger"
)

// KeyLayout is the date layout of published keys.
const KeyLayout = "01/02/2006"

// KeyValueStore is the write half of the key-value capability. PutData
// overwrites any existing value and sets no expiry.
type KeyValueStore interface {
	PutData(ctx context.Context, key, value string) error
}

// Publisher stores one aggregation per run.
type Publisher struct {
	store KeyValueStore
}

func NewPublisher(store KeyValueStore) *Publisher {
	return &Publisher{store: store}
}

// Publish writes agg under its MM/DD/YYYY date key with a single PutData call.
// A store failure is returned as SinkUnavailable naming the key.
func (p *Publisher) Publish(ctx context.Context, agg models.Aggregation) error {
	key := FormatKey(agg.Date)
	value := FormatHigh(agg.High)

	if err := p.store.PutData(ctx, key, value); err != nil {
		return errors.Wrapf(errors.ErrCodeSinkUnavailable, err, "put %q", key)
	}

	logger.L().Info().Str("date", key).Str("high", value).Msg("aggregation stored")
	return nil
}

// FormatKey renders d as MM/DD/YYYY.
func FormatKey(d time.Time) string {
	return d.Format(KeyLayout)
}

// FormatHigh renders v with the scale it was parsed with: 100.50 stays
// "100.50" and 20 stays "20".
func FormatHigh(v decimal.Decimal) string {
	if exp := v.Exponent(); exp < 0 {
		return v.StringFixed(-exp)
	}
	return v.String()
}
