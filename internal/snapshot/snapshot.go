// Package snapshot exports and imports every persisted state key as a TOML
// document, for backups and for moving state between backends.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/ad-tracker/youtube-clone-state/internal/kv"
	"github.com/ad-tracker/youtube-clone-state/internal/store"
	"github.com/ad-tracker/youtube-clone-state/pkg/logger"
)

// Version is the snapshot format written by Export.
const Version = 1

var (
	// ErrUnsupportedVersion is returned by Read for a snapshot written by a
	// newer format.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")

	// ErrForeignKey is returned when a snapshot holds a key outside the
	// state namespace.
	ErrForeignKey = errors.New("key outside the state namespace")
)

// Snapshot is the full persisted state at one point in time.
type Snapshot struct {
	Version    int       `toml:"version"`
	ExportedAt time.Time `toml:"exported_at"`
	Entries    []Entry   `toml:"entries"`
}

// Entry is one persisted key and its raw JSON value.
type Entry struct {
	Key   string `toml:"key"`
	Value string `toml:"value"`
}

// Export reads every state key from backend, sorted by key.
func Export(ctx context.Context, backend kv.Backend, now time.Time) (*Snapshot, error) {
	keys, err := backend.Keys(ctx, store.KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	snap := &Snapshot{
		Version:    Version,
		ExportedAt: now.UTC(),
		Entries:    make([]Entry, 0, len(keys)),
	}
	for _, key := range keys {
		value, ok, err := backend.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if !ok {
			// Removed between Keys and Get.
			continue
		}
		snap.Entries = append(snap.Entries, Entry{Key: key, Value: value})
	}

	logger.Log.Info("State exported", zap.Int("keys", len(snap.Entries)))
	return snap, nil
}

// Write encodes the snapshot as TOML.
func (s *Snapshot) Write(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(s)
}

// Read decodes a TOML snapshot and checks its version and keys.
func Read(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version < 1 || snap.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
	}
	for _, e := range snap.Entries {
		if !strings.HasPrefix(e.Key, store.KeyPrefix) {
			return nil, fmt.Errorf("%w: %q", ErrForeignKey, e.Key)
		}
	}
	return &snap, nil
}

// Import writes every entry to backend. With replace set, state keys that
// are not in the snapshot are removed first, so the backend ends up holding
// exactly the snapshot. It returns the number of keys written.
func Import(ctx context.Context, backend kv.Backend, snap *Snapshot, replace bool) (int, error) {
	if replace {
		keep := make(map[string]bool, len(snap.Entries))
		for _, e := range snap.Entries {
			keep[e.Key] = true
		}

		existing, err := backend.Keys(ctx, store.KeyPrefix)
		if err != nil {
			return 0, fmt.Errorf("list keys: %w", err)
		}
		for _, key := range existing {
			if keep[key] {
				continue
			}
			if err := backend.Remove(ctx, key); err != nil {
				return 0, fmt.Errorf("remove %s: %w", key, err)
			}
		}
	}

	written := 0
	for _, e := range snap.Entries {
		if !strings.HasPrefix(e.Key, store.KeyPrefix) {
			return written, fmt.Errorf("%w: %q", ErrForeignKey, e.Key)
		}
		if err := backend.Set(ctx, e.Key, e.Value); err != nil {
			return written, fmt.Errorf("write %s: %w", e.Key, err)
		}
		written++
	}

	logger.Log.Info("State imported", zap.Int("keys", written), zap.Bool("replace", replace))
	return written, nil
}
