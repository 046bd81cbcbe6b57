package store

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ad-tracker/youtube-clone-state/internal/metrics"
	"github.com/ad-tracker/youtube-clone-state/internal/models"
	"github.com/ad-tracker/youtube-clone-state/internal/validation"
	"github.com/ad-tracker/youtube-clone-state/pkg/logger"
)

const storeSubscriptions = "subscriptions"

// Subscriptions is the list of channels the user follows.
type Subscriptions struct {
	deps     Deps
	p        *persister
	channels []models.Channel
	loaded   bool
	mu       sync.Mutex
}

// NewSubscriptions creates the subscription store.
func NewSubscriptions(deps Deps) *Subscriptions {
	deps = deps.withDefaults()
	return &Subscriptions{
		deps: deps,
		p:    newPersister(deps, storeSubscriptions, KeySubscriptions, "Failed to save subscriptions"),
	}
}

// DefaultSubscriptions returns the compiled-in subscription list.
func DefaultSubscriptions() []models.Channel {
	var channels []models.Channel
	readSeed("subscriptions.json", &channels)
	return channels
}

func (s *Subscriptions) ensure(ctx context.Context) {
	if s.loaded {
		return
	}
	s.channels, s.loaded = loadCollection(ctx, s.p, validation.DecodeChannels, DefaultSubscriptions)
}

// Initialize reloads the list from the backend, replacing what is in memory.
func (s *Subscriptions) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = false
	s.p.marked = false
	s.ensure(ctx)
	logger.Log.Info("Subscriptions initialized", zap.Int("count", len(s.channels)))
}

func (s *Subscriptions) index(name string) int {
	for i, ch := range s.channels {
		if ch.Name == name {
			return i
		}
	}
	return -1
}

// IsSubscribed reports whether the user follows the channel. Names match exactly.
func (s *Subscriptions) IsSubscribed(ctx context.Context, channelName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)
	return s.index(channelName) >= 0
}

// All returns a copy of the subscribed channels in subscription order.
func (s *Subscriptions) All(ctx context.Context) []models.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	out := make([]models.Channel, len(s.channels))
	copy(out, s.channels)
	return out
}

// Toggle subscribes to or unsubscribes from a channel. Subscribing to a
// channel the catalog has no video for does nothing. The list is persisted
// either way; the result reports whether that write succeeded.
func (s *Subscriptions) Toggle(ctx context.Context, channelName string, subscribe bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	idx := s.index(channelName)
	announce := func() {}
	switch {
	case subscribe && idx < 0:
		image, ok := s.deps.Catalog.RepresentativeImage(channelName)
		if !ok {
			logger.Log.Warn("Subscribe to unknown channel ignored", zap.String("channel", channelName))
			break
		}
		s.channels = append(s.channels, models.Channel{
			ID:           s.nextID(),
			Name:         channelName,
			ImageURL:     image,
			IsSubscribed: true,
		})
		metrics.StoreMutations.WithLabelValues(storeSubscriptions, "subscribe").Inc()
		announce = func() { s.deps.Notifier.Success("Subscribed to "+channelName, "") }
	case !subscribe && idx >= 0:
		s.channels = append(s.channels[:idx:idx], s.channels[idx+1:]...)
		metrics.StoreMutations.WithLabelValues(storeSubscriptions, "unsubscribe").Inc()
		announce = func() { s.deps.Notifier.Info("Unsubscribed from "+channelName, "") }
	}

	if err := s.p.save(ctx, "toggle", s.channels, len(s.channels) == 0); err != nil {
		return false
	}
	announce()
	return true
}

// nextID numbers a new channel one past the highest existing "c<N>" id so
// ids stay unique after unsubscribes.
func (s *Subscriptions) nextID() string {
	highest := 0
	for _, ch := range s.channels {
		if n, err := strconv.Atoi(strings.TrimPrefix(ch.ID, "c")); err == nil && n > highest {
			highest = n
		}
	}
	return "c" + strconv.Itoa(highest+1)
}

// Reset restores the compiled-in subscription list.
func (s *Subscriptions) Reset(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	s.channels = DefaultSubscriptions()
	metrics.StoreMutations.WithLabelValues(storeSubscriptions, "reset").Inc()
	if err := s.p.forget(ctx, "reset"); err != nil {
		return false
	}
	if err := s.p.save(ctx, "reset", s.channels, len(s.channels) == 0); err != nil {
		return false
	}

	s.deps.Notifier.Success("Subscriptions reset to default", "")
	return true
}
