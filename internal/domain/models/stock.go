package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord is one daily trading entry of a batch.
//
// Column order in the source files:
//  1. Date
//  2. Open
//  3. High
//  4. Low
//  5. Close
//  6. Volume
//
// OHLC consistency (Low <= Open, Close <= High) is taken as given from the
// source; only High is used downstream.
type StockRecord struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}
