package kv

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Backend. With a positive quota it rejects writes
// that would grow the stored keys and values past quota bytes, the way
// browser storage does.
type Memory struct {
	data   map[string]string
	quota  int
	used   int
	closed bool
	mu     sync.RWMutex
}

// NewMemory creates an empty Memory backend. A quota of zero or less means unlimited.
func NewMemory(quota int) *Memory {
	return &Memory{
		data:  make(map[string]string),
		quota: quota,
	}
}

// Get implements Backend.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, WrapError(ErrClosed, "get")
	}
	value, ok := m.data[key]
	return value, ok, nil
}

// Set implements Backend.
func (m *Memory) Set(_ context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return WrapError(err, "set")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return WrapError(ErrClosed, "set")
	}

	used := m.used + len(key) + len(value)
	if old, ok := m.data[key]; ok {
		used -= len(key) + len(old)
	}
	if m.quota > 0 && used > m.quota {
		return WrapError(ErrQuotaExceeded, "set")
	}

	m.data[key] = value
	m.used = used
	return nil
}

// Remove implements Backend.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return WrapError(ErrClosed, "remove")
	}
	if old, ok := m.data[key]; ok {
		m.used -= len(key) + len(old)
		delete(m.data, key)
	}
	return nil
}

// Keys implements Backend.
func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, WrapError(ErrClosed, "keys")
	}

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Ping implements Backend.
func (m *Memory) Ping(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return WrapError(ErrClosed, "ping")
	}
	return nil
}

// Close implements Backend.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// Used returns the number of bytes currently counted against the quota.
func (m *Memory) Used() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}
