// Package objectstore implements the object-store capability: fetching a
// batch of CSV rows by key and listing the keys under a prefix.
package objectstore

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/guttosm/peakpulse/internal/errors"
)

// readRows splits a CSV object into rows. Column counts are not checked here;
// the loader owns the schema. A CSV syntax error is a MalformedRecord, every
// other read error is returned as-is for the caller to classify.
func readRows(r io.Reader, key string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, errors.Wrapf(errors.ErrCodeMalformedRecord, err, "object %q line %d", key, pe.Line)
			}
			return nil, fmt.Errorf("read object %q: %w", key, err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
