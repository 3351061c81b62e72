package migrations

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func TestUp_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()

	if err := Up(context.Background(), db, "sqlite3"); err != nil {
		t.Fatalf("up: %v", err)
	}
	// Idempotent on a migrated database.
	if err := Up(context.Background(), db, "sqlite3"); err != nil {
		t.Fatalf("second up: %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM pipeline_runs`).Scan(&n); err != nil {
		t.Fatalf("table missing: %v", err)
	}
}

func TestUp_UnknownDialect(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := Up(context.Background(), db, "oracle"); err == nil {
		t.Fatalf("expected error for unknown dialect")
	}
}
