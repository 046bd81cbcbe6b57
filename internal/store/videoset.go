package store

import (
	"context"
	"slices"
	"sync"

	"github.com/ad-tracker/youtube-clone-state/internal/metrics"
	"github.com/ad-tracker/youtube-clone-state/internal/validation"
)

// videoSetText holds the toasts of one video set.
type videoSetText struct {
	added   string
	removed string
	cleared string
	failed  string
}

// VideoSet is an ordered set of video ids: the liked videos or the Watch
// Later list.
type VideoSet struct {
	deps   Deps
	p      *persister
	text   videoSetText
	ids    []string
	loaded bool
	mu     sync.Mutex
}

// NewLikes creates the liked-videos store.
func NewLikes(deps Deps) *VideoSet {
	return newVideoSet(deps, "likes", KeyLikedVideos, videoSetText{
		added:   "Added to liked videos",
		removed: "Removed from Liked Videos",
		cleared: "All liked videos removed",
		failed:  "Failed to save liked videos",
	})
}

// NewWatchLater creates the Watch Later store.
func NewWatchLater(deps Deps) *VideoSet {
	return newVideoSet(deps, "watch_later", KeySavedVideos, videoSetText{
		added:   "Saved to Watch Later",
		removed: "Removed from Watch Later",
		cleared: "Watch Later list cleared",
		failed:  "Failed to save Watch Later list",
	})
}

func newVideoSet(deps Deps, name, key string, text videoSetText) *VideoSet {
	deps = deps.withDefaults()
	return &VideoSet{
		deps: deps,
		p:    newPersister(deps, name, key, text.failed),
		text: text,
	}
}

func (s *VideoSet) ensure(ctx context.Context) {
	if s.loaded {
		return
	}
	s.ids, s.loaded = loadCollection(ctx, s.p, validation.DecodeIDs, func() []string { return []string{} })
}

// Contains reports whether videoID is in the set.
func (s *VideoSet) Contains(ctx context.Context, videoID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)
	return slices.Contains(s.ids, videoID)
}

// IsLiked is Contains under the name the like button uses.
func (s *VideoSet) IsLiked(ctx context.Context, videoID string) bool {
	return s.Contains(ctx, videoID)
}

// IDs returns the ids in the order they were added.
func (s *VideoSet) IDs(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)
	return slices.Clone(s.ids)
}

// Set adds or removes videoID. Asking for the state the set is already in
// does nothing and returns true.
func (s *VideoSet) Set(ctx context.Context, videoID string, member bool) bool {
	if videoID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	idx := slices.Index(s.ids, videoID)
	if (idx >= 0) == member {
		return true
	}

	op, title := "add", s.text.added
	if member {
		s.ids = append(s.ids, videoID)
	} else {
		s.ids = slices.Delete(s.ids, idx, idx+1)
		op, title = "remove", s.text.removed
	}
	metrics.StoreMutations.WithLabelValues(s.p.store, op).Inc()

	if err := s.p.save(ctx, op, s.ids, len(s.ids) == 0); err != nil {
		return false
	}
	if member {
		s.deps.Notifier.Success(title, "")
	} else {
		s.deps.Notifier.Info(title, "")
	}
	return true
}

// SetLiked is Set under the name the like button uses.
func (s *VideoSet) SetLiked(ctx context.Context, videoID string, liked bool) bool {
	return s.Set(ctx, videoID, liked)
}

// Clear empties the set. The cleared state survives a reload.
func (s *VideoSet) Clear(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	if len(s.ids) == 0 {
		return true
	}
	s.ids = []string{}
	metrics.StoreMutations.WithLabelValues(s.p.store, "clear").Inc()

	if err := s.p.save(ctx, "clear", s.ids, true); err != nil {
		return false
	}
	s.deps.Notifier.Success(s.text.cleared, "")
	return true
}

// Reload drops the in-memory list so the next call reads the backend again.
func (s *VideoSet) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.p.marked = false
}
