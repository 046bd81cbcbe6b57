package kv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrQuotaExceeded is returned when the backend refuses a write because it is full.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrClosed is returned by every operation on a backend after Close.
	ErrClosed = errors.New("backend is closed")

	// ErrInvalidKey is returned for empty keys.
	ErrInvalidKey = errors.New("invalid key")
)

// WrapError adds the operation name to a backend error and maps driver
// specific "storage full" conditions to ErrQuotaExceeded.
func WrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrClosed) || errors.Is(err, ErrInvalidKey) {
		return fmt.Errorf("%s: %w", operation, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrFull {
			return fmt.Errorf("%s: %w: %s", operation, ErrQuotaExceeded, sqliteErr.Error())
		}
		return fmt.Errorf("%s: sqlite error [%d]: %w", operation, sqliteErr.Code, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "53100": // disk_full
			return fmt.Errorf("%s: %w: %s", operation, ErrQuotaExceeded, pgErr.Message)
		default:
			return fmt.Errorf("%s: database error [%s]: %w", operation, pgErr.Code, err)
		}
	}

	// Redis reports maxmemory rejections as a plain error reply.
	if strings.HasPrefix(err.Error(), "OOM ") {
		return fmt.Errorf("%s: %w: %s", operation, ErrQuotaExceeded, err.Error())
	}

	return fmt.Errorf("%s: %w", operation, err)
}

// IsQuotaExceeded returns true if the error is an ErrQuotaExceeded error.
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// IsClosed returns true if the error is an ErrClosed error.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}

// IsInvalidKey returns true if the error is an ErrInvalidKey error.
func IsInvalidKey(err error) bool {
	return errors.Is(err, ErrInvalidKey)
}
