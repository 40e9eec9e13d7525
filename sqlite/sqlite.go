// Package sqlite stores normalized records in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// schemaVersion is stored in PRAGMA user_version once the schema exists.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id           TEXT PRIMARY KEY,
	key          TEXT NOT NULL UNIQUE,
	source_url   TEXT NOT NULL,
	kind         TEXT NOT NULL,
	author       TEXT NOT NULL DEFAULT '',
	title        TEXT NOT NULL DEFAULT '',
	body         TEXT NOT NULL DEFAULT '',
	hashtags     TEXT NOT NULL DEFAULT '',
	media_url    TEXT NOT NULL DEFAULT '',
	captions     TEXT NOT NULL DEFAULT '',
	transcript   TEXT NOT NULL DEFAULT '',
	metadata     TEXT NOT NULL DEFAULT '[]',
	sections     TEXT NOT NULL DEFAULT '[]',
	summary      TEXT NOT NULL DEFAULT '',
	content_hash TEXT NOT NULL DEFAULT '',
	extracted_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind);
CREATE INDEX IF NOT EXISTS idx_records_extracted_at ON records(extracted_at);
`

// DB is a single-connection handle to the record store.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB returns a DB for path. Use MemoryPath in tests.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open connects, applies pragmas and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; extraction writes records sequentially.
	conn.SetMaxOpenConns(1)

	if err := db.init(conn); err != nil {
		conn.Close()
		return err
	}
	db.db = conn
	return nil
}

func (db *DB) init(conn *sql.DB) error {
	if err := conn.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	// WAL lets `digest list` read while an extraction writes. In-memory
	// databases do not support it.
	if db.path != MemoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	var version int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// Close closes the connection. It is safe on a DB that never opened.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Stats returns connection pool statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}
