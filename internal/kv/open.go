package kv

import (
	"context"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ad-tracker/youtube-clone-state/internal/config"
	"github.com/ad-tracker/youtube-clone-state/pkg/logger"
)

// Open builds the backend selected by cfg.Driver. Network backends are
// retried with a fixed delay so the service can start before its database.
func Open(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return NewMemory(cfg.Memory.QuotaBytes), nil
	case config.DriverFile:
		backend, err := NewFile(afero.NewOsFs(), cfg.File.Dir)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case config.DriverSQLite:
		backend, err := OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case config.DriverPostgres:
		return connect(ctx, cfg, func() (Backend, error) {
			backend, err := OpenPostgres(ctx, cfg.Postgres)
			if err != nil {
				return nil, err
			}
			return backend, nil
		})
	case config.DriverRedis:
		return connect(ctx, cfg, func() (Backend, error) {
			backend, err := OpenRedis(ctx, cfg.Redis)
			if err != nil {
				return nil, err
			}
			return backend, nil
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func connect(ctx context.Context, cfg config.StorageConfig, dial func() (Backend, error)) (Backend, error) {
	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	backend, err := retry.DoWithData(
		dial,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(cfg.ConnectDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Log.Warn("Storage backend not ready, retrying",
				zap.String("driver", cfg.Driver),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Driver, err)
	}

	logger.Log.Info("Storage backend connected", zap.String("driver", cfg.Driver))
	return backend, nil
}
