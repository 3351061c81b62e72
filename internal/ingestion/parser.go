package ingestion

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/peakpulse/internal/domain/models"
)

// columns is the fixed column order of a batch. Rows must have exactly this
// many fields.
var columns = []string{"date", "open", "high", "low", "close", "volume"}

// dateLayouts are tried in order. The slash form is what the upstream stock
// exports use.
var dateLayouts = []string{"2006-01-02", "2006/01/02"}

// isHeader reports whether row is a header naming the expected columns.
func isHeader(row []string) bool {
	if len(row) != len(columns) {
		return false
	}
	for i, c := range row {
		if !strings.EqualFold(strings.TrimSpace(c), columns[i]) {
			return false
		}
	}
	return true
}

// rowToRecord converts a single row into a models.StockRecord. It is STRICT:
// every field is required, prices must be non-negative decimals and volume a
// non-negative whole number.
//
// Column order:
//
//	0 date    → Date   ("2006-01-02" or "2006/01/02")
//	1 open    → Open   (decimal)
//	2 high    → High   (decimal)
//	3 low     → Low    (decimal)
//	4 close   → Close  (decimal)
//	5 volume  → Volume (int64; "1000.0" accepted, "10.5" rejected)
func rowToRecord(row []string) (models.StockRecord, error) {
	var r models.StockRecord

	if len(row) != len(columns) {
		return r, fmt.Errorf("invalid column count: expected %d got %d", len(columns), len(row))
	}

	d, err := parseDate(strings.TrimSpace(row[0]))
	if err != nil {
		return r, fmt.Errorf("column %d (%s): %w", 1, columns[0], err)
	}
	r.Date = d

	prices := []*decimal.Decimal{&r.Open, &r.High, &r.Low, &r.Close}
	for i, dst := range prices {
		col := i + 1
		v, err := parsePrice(strings.TrimSpace(row[col]))
		if err != nil {
			return r, fmt.Errorf("column %d (%s): %w", col+1, columns[col], err)
		}
		*dst = v
	}

	vol, err := parseVolume(strings.TrimSpace(row[5]))
	if err != nil {
		return r, fmt.Errorf("column %d (%s): %w", 6, columns[5], err)
	}
	r.Volume = vol

	return r, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or YYYY/MM/DD)", s)
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty price")
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", s)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %q", s)
	}
	return v, nil
}

func parseVolume(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty volume")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		if v < 0 {
			return 0, fmt.Errorf("negative volume %q", s)
		}
		return v, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("volume %q out of range", s)
	}

	// Exports sometimes write volumes as floats ("1000.0").
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid volume %q", s)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("fractional volume %q", s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative volume %q", s)
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, fmt.Errorf("volume %q out of range", s)
	}
	return d.IntPart(), nil
}
