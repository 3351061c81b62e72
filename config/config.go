package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/guttosm/peakpulse/internal/errors"
)

// Binding selects the concrete backends of the two pipeline capabilities.
//
//   - local:  object store = files under LOCAL_DATA_DIR, key-value store = in-memory map.
//   - docker: object store = S3 (or localstack), key-value store = Redis.
const (
	BindingLocal  = "local"
	BindingDocker = "docker"
)

// Ledger drivers.
const (
	LedgerSQLite   = "sqlite"
	LedgerPostgres = "postgres"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV:
//
//	PIPELINE_BINDING=docker
//	PIPELINE_SOURCE_KEY=prefix/stock_9.csv
//	S3_BUCKET=dagster
//	S3_ENDPOINT_URL=http://localhost:4566
//	REDIS_HOST=localhost
//	REDIS_PORT=6379
//	LEDGER_DRIVER=postgres
//	POSTGRES_HOST=localhost
type Config struct {
	Server   ServerConfig   `validate:"-"`
	Pipeline PipelineConfig `validate:"-"`
	Sensor   SensorConfig   `validate:"-"`
	Local    LocalConfig    `validate:"-"`
	S3       S3Config       `validate:"-"`
	Redis    RedisConfig    `validate:"-"`
	Ledger   LedgerConfig   `validate:"-"`
	Postgres PostgresConfig `validate:"-"`
}

// ServerConfig holds HTTP server settings for serve mode.
type ServerConfig struct {
	Port string `env:"SERVER_PORT" validate:"required,numeric"`
}

// PipelineConfig selects backends and the default batch of a run.
type PipelineConfig struct {
	Binding   string `env:"PIPELINE_BINDING" validate:"required,oneof=local docker"`
	SourceKey string `env:"PIPELINE_SOURCE_KEY"`
	Retry     bool   `env:"PIPELINE_RETRY"`
	JobsFile  string `env:"PIPELINE_JOBS_FILE"`
}

// SensorConfig controls the object-store polling sensor.
type SensorConfig struct {
	Enabled  bool          `env:"SENSOR_ENABLED"`
	Prefix   string        `env:"SENSOR_PREFIX"`
	Interval time.Duration `env:"SENSOR_INTERVAL" validate:"gt=0"`
}

// LocalConfig is the backing directory of the local object store.
type LocalConfig struct {
	DataDir string `env:"LOCAL_DATA_DIR" validate:"required"`
}

// S3Config defines bucket, credentials and endpoint of the S3 object store.
// An empty EndpointURL means the AWS default endpoint resolution.
type S3Config struct {
	Bucket      string `env:"S3_BUCKET" validate:"required"`
	AccessKey   string `env:"S3_ACCESS_KEY"`
	SecretKey   string `env:"S3_SECRET_KEY"`
	EndpointURL string `env:"S3_ENDPOINT_URL" validate:"omitempty,url"`
	Region      string `env:"S3_REGION" validate:"required"`
}

// RedisConfig defines the Redis key-value store connection.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" validate:"required"`
	Port     int    `env:"REDIS_PORT" validate:"min=1,max=65535"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" validate:"gte=0"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LedgerConfig selects where run records are kept.
type LedgerConfig struct {
	Driver     string `env:"LEDGER_DRIVER" validate:"required,oneof=sqlite postgres"`
	SQLitePath string `env:"LEDGER_SQLITE_PATH"`
}

// PostgresConfig defines connection details for the PostgreSQL ledger.
//
// URL is the computed DSN used by database/sql.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" validate:"required"`
	Port     int    `env:"POSTGRES_PORT" validate:"min=1,max=65535"`
	User     string `env:"POSTGRES_USER" validate:"required"`
	Password string `env:"POSTGRES_PASSWORD" validate:"required"`
	DBName   string `env:"POSTGRES_DB" validate:"required"`
	SSLMode  string `env:"POSTGRES_SSLMODE"`
	URL      string `env:"-"`
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and read by cmd and internal/app.
var AppConfig Config

// LoadConfig initializes the global AppConfig. AppConfig is left untouched
// when the configuration is invalid.
func LoadConfig() error {
	cfg, err := Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	AppConfig = cfg
	return nil
}

// Load reads the configuration.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	// Optionally read from .env if present (common in local dev)
	v.SetConfigFile(".env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()

	cfg := Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
		},
		Pipeline: PipelineConfig{
			Binding:   strings.ToLower(v.GetString("PIPELINE_BINDING")),
			SourceKey: v.GetString("PIPELINE_SOURCE_KEY"),
			Retry:     v.GetBool("PIPELINE_RETRY"),
			JobsFile:  v.GetString("PIPELINE_JOBS_FILE"),
		},
		Sensor: SensorConfig{
			Enabled:  v.GetBool("SENSOR_ENABLED"),
			Prefix:   v.GetString("SENSOR_PREFIX"),
			Interval: v.GetDuration("SENSOR_INTERVAL"),
		},
		Local: LocalConfig{
			DataDir: v.GetString("LOCAL_DATA_DIR"),
		},
		S3: S3Config{
			Bucket:      v.GetString("S3_BUCKET"),
			AccessKey:   v.GetString("S3_ACCESS_KEY"),
			SecretKey:   v.GetString("S3_SECRET_KEY"),
			EndpointURL: v.GetString("S3_ENDPOINT_URL"),
			Region:      v.GetString("S3_REGION"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Ledger: LedgerConfig{
			Driver:     strings.ToLower(v.GetString("LEDGER_DRIVER")),
			SQLitePath: v.GetString("LEDGER_SQLITE_PATH"),
		},
		Postgres: PostgresConfig{
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetInt("POSTGRES_PORT"),
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			DBName:   v.GetString("POSTGRES_DB"),
			SSLMode:  v.GetString("POSTGRES_SSLMODE"),
		},
	}

	cfg.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")

	v.SetDefault("PIPELINE_BINDING", BindingLocal)
	v.SetDefault("PIPELINE_SOURCE_KEY", "prefix/stock_9.csv")
	v.SetDefault("PIPELINE_RETRY", true)
	v.SetDefault("PIPELINE_JOBS_FILE", "")

	v.SetDefault("SENSOR_ENABLED", false)
	v.SetDefault("SENSOR_PREFIX", "prefix")
	v.SetDefault("SENSOR_INTERVAL", "30s")

	v.SetDefault("LOCAL_DATA_DIR", "./data")

	v.SetDefault("S3_BUCKET", "dagster")
	v.SetDefault("S3_ACCESS_KEY", "test")
	v.SetDefault("S3_SECRET_KEY", "test")
	v.SetDefault("S3_ENDPOINT_URL", "http://localhost:4566")
	v.SetDefault("S3_REGION", "us-east-1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LEDGER_DRIVER", LedgerSQLite)
	v.SetDefault("LEDGER_SQLITE_PATH", "./data/peakpulse.db")

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "peakpulse")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
}

// Validate checks the sections that the selected binding and ledger driver
// actually use and reports every offending variable at once.
func Validate(cfg Config) error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" && name != "-" {
			return name
		}
		return f.Name
	})

	var invalid []string
	sections := []any{cfg.Server, cfg.Pipeline, cfg.Ledger}
	switch cfg.Pipeline.Binding {
	case BindingLocal:
		sections = append(sections, cfg.Local)
	case BindingDocker:
		sections = append(sections, cfg.S3, cfg.Redis)
	}
	switch cfg.Ledger.Driver {
	case LedgerPostgres:
		sections = append(sections, cfg.Postgres)
	case LedgerSQLite:
		if cfg.Ledger.SQLitePath == "" {
			invalid = append(invalid, "LEDGER_SQLITE_PATH (required)")
		}
	}
	if cfg.Sensor.Enabled {
		sections = append(sections, cfg.Sensor)
	}

	for _, s := range sections {
		err := validate.Struct(s)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return errors.Wrap(errors.ErrCodeInvalidConfiguration, "validate configuration", err)
		}
		for _, fe := range verrs {
			invalid = append(invalid, describe(fe))
		}
	}

	if len(invalid) > 0 {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "invalid environment variables: %s", strings.Join(invalid, ", "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
	}
	return fmt.Sprintf("%s (%s=%s)", fe.Field(), fe.Tag(), fe.Param())
}
