package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ad-tracker/youtube-clone-state/internal/kv"
	"github.com/ad-tracker/youtube-clone-state/internal/toast"
)

var errBackendDown = errors.New("backend down")

// flakyBackend wraps a backend and fails reads or writes on demand.
type flakyBackend struct {
	kv.Backend
	failReads  atomic.Bool
	failWrites atomic.Bool
}

func (f *flakyBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failReads.Load() {
		return "", false, errBackendDown
	}
	return f.Backend.Get(ctx, key)
}

func (f *flakyBackend) Set(ctx context.Context, key, value string) error {
	if f.failWrites.Load() {
		return fmt.Errorf("set %s: %w", key, kv.ErrQuotaExceeded)
	}
	return f.Backend.Set(ctx, key, value)
}

func (f *flakyBackend) Remove(ctx context.Context, key string) error {
	if f.failWrites.Load() {
		return errBackendDown
	}
	return f.Backend.Remove(ctx, key)
}

type fixture struct {
	deps    Deps
	backend *flakyBackend
	toasts  *toast.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := &flakyBackend{Backend: kv.NewMemory(0)}
	recorder := toast.NewRecorder(100)

	var seq atomic.Int64
	return &fixture{
		backend: backend,
		toasts:  recorder,
		deps: Deps{
			Backend:  backend,
			Notifier: toast.NewDispatcher(recorder),
			Now:      func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
			NewID:    func() string { return "test-" + strconv.FormatInt(seq.Add(1), 10) },
			IntN:     func(int) int { return 0 },
		},
	}
}

// titles returns the titles of the toasts raised so far and forgets them.
func (f *fixture) titles() []string {
	recent := f.toasts.Recent()
	f.toasts.Reset()

	out := make([]string, 0, len(recent))
	for _, t := range recent {
		out = append(out, t.Title)
	}
	return out
}

func (f *fixture) levels() []toast.Level {
	recent := f.toasts.Recent()
	out := make([]toast.Level, 0, len(recent))
	for _, t := range recent {
		out = append(out, t.Level)
	}
	return out
}

func (f *fixture) put(t *testing.T, key, value string) {
	t.Helper()
	require.NoError(t, f.backend.Backend.Set(context.Background(), key, value))
}

func (f *fixture) stored(t *testing.T, key string) (string, bool) {
	t.Helper()
	value, ok, err := f.backend.Backend.Get(context.Background(), key)
	require.NoError(t, err)
	return value, ok
}
