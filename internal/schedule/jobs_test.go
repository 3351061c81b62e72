package schedule

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guttosm/peakpulse/internal/errors"
)

func TestParseJobs_TableDriven(t *testing.T) {
	cases := []struct {
		name    string
		doc     string
		want    int
		wantErr string
	}{
		{
			name: "two jobs",
			doc: `
jobs:
  - name: stock_9_daily
    source_key: prefix/stock_9.csv
    cron: "0 0 * * *"
  - name: stock_3_hourly
    source_key: prefix/stock_3.csv
    cron: "@hourly"
`,
			want: 2,
		},
		{name: "no jobs", doc: "jobs: []\n", want: 0},
		{
			name:    "missing name",
			doc:     "jobs:\n  - source_key: k\n    cron: \"* * * * *\"\n",
			wantErr: "job 1: name is required",
		},
		{
			name: "duplicate name",
			doc: `
jobs:
  - {name: a, source_key: k1, cron: "* * * * *"}
  - {name: a, source_key: k2, cron: "* * * * *"}
`,
			wantErr: `job "a": duplicate name`,
		},
		{
			name:    "bad cron",
			doc:     "jobs:\n  - {name: a, source_key: k, cron: \"every day\"}\n",
			wantErr: `job "a": cron "every day"`,
		},
		{
			name:    "blank source key",
			doc:     "jobs:\n  - {name: a, source_key: \" \", cron: \"@daily\"}\n",
			wantErr: "source_key is required",
		},
		{
			name:    "unknown field",
			doc:     "jobs:\n  - {name: a, source_key: k, cron: \"@daily\", retries: 3}\n",
			wantErr: "decode jobs",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			jobs, err := ParseJobs([]byte(tc.doc))
			if tc.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q", tc.wantErr)
				}
				if !errors.HasCode(err, errors.ErrCodeInvalidConfiguration) {
					t.Fatalf("expected InvalidConfiguration, got %v", err)
				}
				if !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("error %q does not contain %q", err.Error(), tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(jobs) != tc.want {
				t.Fatalf("jobs: want %d got %d", tc.want, len(jobs))
			}
		})
	}
}

func TestLoadJobs(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "jobs.yaml")
	doc := "jobs:\n  - {name: ' daily ', source_key: prefix/stock_9.csv, cron: '@daily'}\n"
	if err := os.WriteFile(p, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	jobs, err := LoadJobs(p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Name != "daily" || jobs[0].SourceKey != "prefix/stock_9.csv" {
		t.Fatalf("unexpected jobs %+v", jobs)
	}

	if _, err := LoadJobs(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadJobs_ExampleFile(t *testing.T) {
	jobs, err := LoadJobs(filepath.Join("..", "..", "jobs.example.yaml"))
	if err != nil {
		t.Fatalf("example jobs file does not load: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
}
