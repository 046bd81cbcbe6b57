package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite stores keys in the kv table of a single SQLite database file.
type SQLite struct {
	db     *sql.DB
	closed atomic.Bool
}

// OpenSQLite migrates the database at path and opens it.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := MigrateUp(DialectSQLite, SQLiteURL(path)); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; SQLite serialises them anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Get implements Backend.
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	if s.closed.Load() {
		return "", false, WrapError(ErrClosed, "get")
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, WrapError(err, "get")
	}
	return value, true, nil
}

// Set implements Backend.
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return WrapError(err, "set")
	}
	if s.closed.Load() {
		return WrapError(ErrClosed, "set")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	return WrapError(err, "set")
}

// Remove implements Backend.
func (s *SQLite) Remove(ctx context.Context, key string) error {
	if s.closed.Load() {
		return WrapError(ErrClosed, "remove")
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return WrapError(err, "remove")
}

// Keys implements Backend.
func (s *SQLite) Keys(ctx context.Context, prefix string) ([]string, error) {
	if s.closed.Load() {
		return nil, WrapError(ErrClosed, "keys")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM kv WHERE ? = '' OR instr(key, ?) = 1 ORDER BY key`, prefix, prefix)
	if err != nil {
		return nil, WrapError(err, "keys")
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, WrapError(err, "keys")
		}
		keys = append(keys, key)
	}
	return keys, WrapError(rows.Err(), "keys")
}

// Ping implements Backend.
func (s *SQLite) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return WrapError(ErrClosed, "ping")
	}
	return WrapError(s.db.PingContext(ctx), "ping")
}

// Close implements Backend.
func (s *SQLite) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}
