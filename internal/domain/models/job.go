package models

// Job is a named cron schedule that triggers a run for one source key.
type Job struct {
	Name      string `yaml:"name" json:"name"`
	SourceKey string `yaml:"source_key" json:"source_key"`
	Cron      string `yaml:"cron" json:"cron"`
}
