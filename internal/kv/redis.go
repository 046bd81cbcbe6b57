package kv

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/ad-tracker/youtube-clone-state/internal/config"
)

const scanBatch = 100

// Redis stores every key as a plain Redis string.
type Redis struct {
	client *redis.Client
	closed atomic.Bool
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// OpenRedis connects to the configured Redis server and verifies it answers.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, WrapError(err, "connect to redis")
	}
	return NewRedis(client), nil
}

// Get implements Backend.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	if r.closed.Load() {
		return "", false, WrapError(ErrClosed, "get")
	}

	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, WrapError(err, "get")
	}
	return value, true, nil
}

// Set implements Backend.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return WrapError(err, "set")
	}
	if r.closed.Load() {
		return WrapError(ErrClosed, "set")
	}
	return WrapError(r.client.Set(ctx, key, value, 0).Err(), "set")
}

// Remove implements Backend.
func (r *Redis) Remove(ctx context.Context, key string) error {
	if r.closed.Load() {
		return WrapError(ErrClosed, "remove")
	}
	return WrapError(r.client.Del(ctx, key).Err(), "remove")
}

// Keys implements Backend using SCAN so large keyspaces are never blocked.
func (r *Redis) Keys(ctx context.Context, prefix string) ([]string, error) {
	if r.closed.Load() {
		return nil, WrapError(ErrClosed, "keys")
	}

	var keys []string
	iter := r.client.Scan(ctx, 0, globEscape(prefix)+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, WrapError(err, "keys")
	}

	sort.Strings(keys)
	return keys, nil
}

// Ping implements Backend.
func (r *Redis) Ping(ctx context.Context) error {
	if r.closed.Load() {
		return WrapError(ErrClosed, "ping")
	}
	return WrapError(r.client.Ping(ctx).Err(), "ping")
}

// Close implements Backend.
func (r *Redis) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	return r.client.Close()
}

func globEscape(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
