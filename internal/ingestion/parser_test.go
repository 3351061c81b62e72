package ingestion

import (
	"strings"
	"testing"
	"time"
)

func TestRowToRecord_TableDriven(t *testing.T) {
	cases := []struct {
		name       string
		row        string
		wantErr    string
		wantHigh   string
		wantVolume int64
	}{
		{name: "ok dashed date", row: "2020-06-04,99.0,100.50,98.1,99.9,1500", wantHigh: "100.5", wantVolume: 1500},
		{name: "ok slashed date", row: "2020/06/04,1,2,1,2,10", wantHigh: "2", wantVolume: 10},
		{name: "whole float volume", row: "2020-01-02,10,20,5,15,1000.0", wantHigh: "20", wantVolume: 1000},
		{name: "padded fields", row: " 2020-01-02 , 10 , 20 , 5 , 15 , 7 ", wantHigh: "20", wantVolume: 7},
		{name: "too few columns", row: "2020-01-02,10,20", wantErr: "invalid column count"},
		{name: "too many columns", row: "2020-01-02,10,20,5,15,7,x", wantErr: "invalid column count"},
		{name: "bad date", row: "06/04/2020,1,2,1,2,10", wantErr: "column 1 (date)"},
		{name: "empty date", row: ",1,2,1,2,10", wantErr: "empty date"},
		{name: "non numeric high", row: "2020-01-02,1,abc,1,2,10", wantErr: "column 3 (high)"},
		{name: "negative low", row: "2020-01-02,1,2,-1,2,10", wantErr: "column 4 (low): negative price"},
		{name: "fractional volume", row: "2020-01-02,1,2,1,2,10.5", wantErr: "fractional volume"},
		{name: "negative volume", row: "2020-01-02,1,2,1,2,-3", wantErr: "negative volume"},
		{name: "max int64 volume", row: "2020-01-02,1,2,1,2,9223372036854775807", wantHigh: "2", wantVolume: 9223372036854775807},
		{name: "volume above int64", row: "2020-01-02,1,2,1,2,18446744073709551617", wantErr: "column 6 (volume): volume \"18446744073709551617\" out of range"},
		{name: "huge volume", row: "2020-01-02,1,2,1,2,99999999999999999999", wantErr: "out of range"},
		{name: "exponent volume above int64", row: "2020-01-02,1,2,1,2,1e30", wantErr: "out of range"},
		{name: "float volume above int64", row: "2020-01-02,1,2,1,2,9223372036854775808.0", wantErr: "out of range"},
		{name: "empty close", row: "2020-01-02,1,2,1,,10", wantErr: "column 5 (close): empty price"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := rowToRecord(strings.Split(tc.row, ","))
			if tc.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q", tc.wantErr)
				}
				if !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("error %q does not contain %q", err.Error(), tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if rec.High.String() != tc.wantHigh {
				t.Fatalf("high: want %s got %s", tc.wantHigh, rec.High.String())
			}
			if rec.Volume != tc.wantVolume {
				t.Fatalf("volume: want %d got %d", tc.wantVolume, rec.Volume)
			}
		})
	}
}

func TestRowToRecord_DateIsCalendarDay(t *testing.T) {
	rec, err := rowToRecord([]string{"2020/06/04", "1", "2", "1", "2", "10"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := time.Date(2020, time.June, 4, 0, 0, 0, 0, time.UTC)
	if !rec.Date.Equal(want) {
		t.Fatalf("date: want %v got %v", want, rec.Date)
	}
}

func TestIsHeader(t *testing.T) {
	if !isHeader([]string{"Date", "Open", "High", "Low", "Close", "Volume"}) {
		t.Fatalf("expected canonical header to match")
	}
	if isHeader([]string{"date", "close", "volume", "open", "high", "low"}) {
		t.Fatalf("reordered header must not match")
	}
	if isHeader([]string{"2020-01-02", "1", "2", "1", "2", "10"}) {
		t.Fatalf("data row must not match")
	}
}
