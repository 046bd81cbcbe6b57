package kv

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ad-tracker/youtube-clone-state/internal/config"
)

// Postgres stores keys in the kv table of a PostgreSQL database.
type Postgres struct {
	pool   *pgxpool.Pool
	closed atomic.Bool
}

// NewPostgres wraps an existing pool. The kv table must already exist.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// OpenPostgres migrates the configured database and opens a connection pool to it.
func OpenPostgres(ctx context.Context, cfg config.PostgresConfig) (*Postgres, error) {
	if err := MigrateUp(DialectPostgres, PostgresURL(cfg)); err != nil {
		return nil, err
	}

	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewPostgres(pool), nil
}

// NewPool creates a PostgreSQL connection pool with the given configuration.
func NewPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = cfg.MaxConnections
	}
	if cfg.MinConnections > 0 {
		poolConfig.MinConns = cfg.MinConnections
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	}
	if cfg.MaxIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Get implements Backend.
func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	if p.closed.Load() {
		return "", false, WrapError(ErrClosed, "get")
	}

	var value string
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, WrapError(err, "get")
	}
	return value, true, nil
}

// Set implements Backend.
func (p *Postgres) Set(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return WrapError(err, "set")
	}
	if p.closed.Load() {
		return WrapError(ErrClosed, "set")
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, value)
	return WrapError(err, "set")
}

// Remove implements Backend.
func (p *Postgres) Remove(ctx context.Context, key string) error {
	if p.closed.Load() {
		return WrapError(ErrClosed, "remove")
	}

	_, err := p.pool.Exec(ctx, `DELETE FROM kv WHERE key = $1`, key)
	return WrapError(err, "remove")
}

// Keys implements Backend.
func (p *Postgres) Keys(ctx context.Context, prefix string) ([]string, error) {
	if p.closed.Load() {
		return nil, WrapError(ErrClosed, "keys")
	}

	rows, err := p.pool.Query(ctx, `SELECT key FROM kv WHERE starts_with(key, $1) ORDER BY key`, prefix)
	if err != nil {
		return nil, WrapError(err, "keys")
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, WrapError(err, "keys")
	}
	return keys, nil
}

// Ping implements Backend.
func (p *Postgres) Ping(ctx context.Context) error {
	if p.closed.Load() {
		return WrapError(ErrClosed, "ping")
	}
	return WrapError(p.pool.Ping(ctx), "ping")
}

// Close implements Backend.
func (p *Postgres) Close() error {
	if !p.closed.Swap(true) {
		p.pool.Close()
	}
	return nil
}
