package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/guttosm/peakpulse/config"
	"github.com/guttosm/peakpulse/internal/storage"
	"github.com/guttosm/peakpulse/migrations"

	_ "github.com/lib/pq"  // PostgreSQL driver for database/sql
	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// InitPostgres opens the PostgreSQL ledger described by cfg.Postgres and
// pings it.
//
// Example usage:
//
//	db, err := app.InitPostgres(ctx, config.AppConfig)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
func InitPostgres(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := sqlOpener("postgres", cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// InitSQLite opens (creating if needed) the SQLite ledger file at
// cfg.Ledger.SQLitePath. The pool is limited to one connection so that
// writes never contend for the file lock.
func InitSQLite(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	path := cfg.Ledger.SQLitePath
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	db, err := sqlOpener("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	return db, nil
}

// postgresOpener and sqliteOpener are indirections used by openLedger;
// overridden in tests to avoid real connections.
var (
	postgresOpener = InitPostgres
	sqliteOpener   = InitSQLite
)

// migrate is overridden in tests that hand out sqlmock connections.
var migrate = migrations.Up

// openLedger connects to the configured ledger database, applies the
// migrations and returns the repository over it.
func openLedger(ctx context.Context, cfg config.Config) (storage.RunsRepository, *sql.DB, error) {
	var (
		db      *sql.DB
		err     error
		driver  string
		dialect string
	)
	switch cfg.Ledger.Driver {
	case config.LedgerPostgres:
		db, err = postgresOpener(ctx, cfg)
		driver, dialect = storage.DriverPostgres, "postgres"
	case config.LedgerSQLite:
		db, err = sqliteOpener(ctx, cfg)
		driver, dialect = storage.DriverSQLite, "sqlite3"
	default:
		return nil, nil, fmt.Errorf("unknown ledger driver %q", cfg.Ledger.Driver)
	}
	if err != nil {
		return nil, nil, err
	}

	if err := migrate(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to migrate ledger: %w", err)
	}
	return storage.NewRunsRepository(db, driver), db, nil
}
