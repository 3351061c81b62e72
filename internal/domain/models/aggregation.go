package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Aggregation is the single summary derived from a batch: the highest
// intraday price and the date it was observed on.
type Aggregation struct {
	Date time.Time
	High decimal.Decimal
}
