package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/ad-tracker/youtube-clone-state/internal/metrics"
	"github.com/ad-tracker/youtube-clone-state/internal/models"
	"github.com/ad-tracker/youtube-clone-state/internal/validation"
)

const storeChannels = "channels"

// ChannelMeta caches the display metadata of channel pages, keyed by name.
type ChannelMeta struct {
	deps   Deps
	p      *persister
	meta   map[string]models.ChannelMeta
	loaded bool
	mu     sync.Mutex
}

// NewChannelMeta creates the channel metadata store.
func NewChannelMeta(deps Deps) *ChannelMeta {
	deps = deps.withDefaults()
	return &ChannelMeta{
		deps: deps,
		p:    newPersister(deps, storeChannels, KeyChannels, "Failed to save channel details"),
	}
}

// ensure loads the stored map. There are no defaults: entries are derived
// from the catalog on demand, so anything unparsable just starts empty. A
// failed read leaves the store unloaded and nothing is written until a
// later read succeeds.
func (s *ChannelMeta) ensure(ctx context.Context) {
	if s.loaded {
		return
	}
	s.meta = make(map[string]models.ChannelMeta)

	raw, ok, err := s.p.backend.Get(ctx, s.p.key)
	if err != nil {
		s.p.fallback(reasonBackend, err)
		return
	}
	s.loaded = true

	if ok {
		meta, dropped, err := validation.DecodeChannelMeta([]byte(raw))
		if err != nil {
			s.p.fallback(decodeReason(err), err)
			return
		}
		if dropped > 0 {
			metrics.RecordsDropped.WithLabelValues(storeChannels).Add(float64(dropped))
		}
		s.meta = meta
	}
}

// Get returns the stored metadata of a channel.
func (s *ChannelMeta) Get(ctx context.Context, name string) (models.ChannelMeta, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	meta, ok := s.meta[name]
	return meta, ok
}

// Names returns the names of every stored channel, sorted.
func (s *ChannelMeta) Names(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)
	return slices.Sorted(maps.Keys(s.meta))
}

// Ensure returns the metadata of a channel, deriving it from the catalog and
// storing it the first time. It returns false for a channel with no videos.
func (s *ChannelMeta) Ensure(ctx context.Context, name string) (models.ChannelMeta, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	if meta, ok := s.meta[name]; ok {
		return meta, true
	}
	meta, ok := s.deps.Catalog.DeriveChannel(name)
	if !ok {
		return models.ChannelMeta{}, false
	}
	if !s.loaded {
		return meta, true
	}
	s.meta[name] = meta
	metrics.StoreMutations.WithLabelValues(storeChannels, "derive").Inc()
	// save logs and toasts a failure; the derived entry is served regardless.
	_ = s.p.save(ctx, "derive", s.meta, false)
	return meta, true
}

// Put stores metadata under meta.Name, replacing any previous entry.
func (s *ChannelMeta) Put(ctx context.Context, meta models.ChannelMeta) bool {
	if meta.Name == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)
	if !s.loaded {
		return false
	}

	s.meta[meta.Name] = meta
	metrics.StoreMutations.WithLabelValues(storeChannels, "put").Inc()
	return s.p.save(ctx, "put", s.meta, false) == nil
}

// Reload drops the in-memory metadata so the next call reads the backend again.
func (s *ChannelMeta) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
}
