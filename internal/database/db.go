package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/opendesk/support-storage-go/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	session_id TEXT PRIMARY KEY,
	status TEXT,
	issue_type TEXT,
	sentiment TEXT,
	created_at TEXT,
	updated_at TEXT
);

CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT,
	message_id TEXT,
	customer_email TEXT,
	message_type TEXT,
	content TEXT,
	metadata TEXT,
	created_at TEXT
);
`

type DB struct {
	*sqlx.DB
	path string
}

// Open opens the conversation log database, creating the parent directory,
// enabling WAL and bootstrapping the schema. Opening an already-initialized
// database is a no-op beyond the pragma.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite supports a single writer; more connections just contend.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{DB: db, path: path}, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

func (db *DB) Path() string {
	return db.path
}

// Execute runs a parameterized write statement. Parameters are always bound,
// never interpolated.
func (db *DB) Execute(ctx context.Context, query string, args ...any) error {
	_, err := db.ExecContext(ctx, query, args...)
	return err
}

// FetchOne returns a single row as a column/value map, or nil when the query
// matches nothing.
func (db *DB) FetchOne(ctx context.Context, query string, args ...any) (map[string]any, error) {
	row := db.QueryRowxContext(ctx, query, args...)
	dest := map[string]any{}
	if err := row.MapScan(dest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return dest, nil
}

// FetchAll returns every matching row as a column/value map.
func (db *DB) FetchAll(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []map[string]any
	for rows.Next() {
		dest := map[string]any{}
		if err := rows.MapScan(dest); err != nil {
			return nil, err
		}
		results = append(results, dest)
	}
	return results, rows.Err()
}

// HealthCheck runs a trivial round-trip query. It never returns an error;
// failures are reported in the result.
func (db *DB) HealthCheck(ctx context.Context) *model.HealthReport {
	var one int
	if err := db.GetContext(ctx, &one, "SELECT 1"); err != nil {
		return &model.HealthReport{
			Status:     model.HealthStatusUnhealthy,
			TestPassed: false,
			Error:      err.Error(),
		}
	}
	return &model.HealthReport{
		Status:     model.HealthStatusHealthy,
		TestPassed: true,
		Database:   db.path,
	}
}
