package schedule

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/guttosm/peakpulse/internal/domain/models"
	"github.com/guttosm/peakpulse/internal/errors"
)

// jobsFile is the on-disk layout:
//
//	jobs:
//	  - name: stock_9_daily
//	    source_key: prefix/stock_9.csv
//	    cron: "0 0 * * *"
type jobsFile struct {
	Jobs []models.Job `yaml:"jobs"`
}

// LoadJobs reads and validates a jobs file.
func LoadJobs(path string) ([]models.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "read jobs file %q", path)
	}
	return ParseJobs(data)
}

// ParseJobs decodes a jobs document. Unknown fields, blank or duplicate
// names, blank source keys and unparsable cron expressions are rejected.
func ParseJobs(data []byte) ([]models.Job, error) {
	var f jobsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "decode jobs", err)
	}

	seen := make(map[string]struct{}, len(f.Jobs))
	for i, j := range f.Jobs {
		name := strings.TrimSpace(j.Name)
		if name == "" {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "job %d: name is required", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "job %q: duplicate name", name)
		}
		seen[name] = struct{}{}

		if strings.TrimSpace(j.SourceKey) == "" {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "job %q: source_key is required", name)
		}
		if _, err := cron.ParseStandard(j.Cron); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, fmt.Sprintf("job %q: cron %q", name, j.Cron), err)
		}
		f.Jobs[i].Name = name
	}
	return f.Jobs, nil
}
