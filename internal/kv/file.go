package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

const fileExt = ".json"

// File stores every key as one file in a directory. Keys are path-escaped
// into file names, and writes go through a temporary file and a rename so a
// crash never leaves a half-written value behind.
type File struct {
	fs     afero.Fs
	dir    string
	closed bool
	mu     sync.RWMutex
}

// NewFile creates a File backend rooted at dir on fsys, creating dir if needed.
func NewFile(fsys afero.Fs, dir string) (*File, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &File{fs: fsys, dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+fileExt)
}

// Get implements Backend.
func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, nil
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return "", false, WrapError(ErrClosed, "get")
	}

	data, err := afero.ReadFile(f.fs, f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, WrapError(err, "get")
	}
	return string(data), true, nil
}

// Set implements Backend.
func (f *File) Set(_ context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return WrapError(err, "set")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return WrapError(ErrClosed, "set")
	}

	target := f.path(key)
	tmp := target + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, []byte(value), 0o644); err != nil {
		return WrapError(err, "set")
	}
	if err := f.fs.Rename(tmp, target); err != nil {
		_ = f.fs.Remove(tmp)
		return WrapError(err, "set")
	}
	return nil
}

// Remove implements Backend.
func (f *File) Remove(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return WrapError(ErrClosed, "remove")
	}

	if err := f.fs.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return WrapError(err, "remove")
	}
	return nil
}

// Keys implements Backend.
func (f *File) Keys(_ context.Context, prefix string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return nil, WrapError(ErrClosed, "keys")
	}

	entries, err := afero.ReadDir(f.fs, f.dir)
	if err != nil {
		return nil, WrapError(err, "keys")
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, fileExt))
		if err != nil {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Ping implements Backend.
func (f *File) Ping(_ context.Context) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return WrapError(ErrClosed, "ping")
	}
	if _, err := f.fs.Stat(f.dir); err != nil {
		return WrapError(err, "ping")
	}
	return nil
}

// Close implements Backend.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	return nil
}
