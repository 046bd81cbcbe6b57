package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/ad-tracker/youtube-clone-state/internal/format"
	"github.com/ad-tracker/youtube-clone-state/internal/metrics"
	"github.com/ad-tracker/youtube-clone-state/internal/models"
	"github.com/ad-tracker/youtube-clone-state/internal/validation"
	"github.com/ad-tracker/youtube-clone-state/pkg/logger"
)

const storeComments = "comments"

type thread struct {
	p      *persister
	items  []models.Comment
	loaded bool
}

// Comments holds the comment threads of every video, one key per video.
// Only catalog videos and uploads have a thread.
type Comments struct {
	deps    Deps
	uploads *Uploads
	threads map[string]*thread
	mu      sync.Mutex
}

// NewComments creates the comment store. uploads may be nil, in which case
// only catalog videos take comments.
func NewComments(deps Deps, uploads *Uploads) *Comments {
	deps = deps.withDefaults()
	return &Comments{
		deps:    deps,
		uploads: uploads,
		threads: make(map[string]*thread),
	}
}

// known reports whether videoID names a catalog video or an upload.
func (s *Comments) known(ctx context.Context, videoID string) bool {
	if videoID == "" {
		return false
	}
	if _, ok := s.deps.Catalog.Lookup(videoID); ok {
		return true
	}
	if s.uploads == nil {
		return false
	}
	_, ok := s.uploads.Get(ctx, videoID)
	return ok
}

// thread returns the loaded thread of videoID.
func (s *Comments) thread(ctx context.Context, videoID string) *thread {
	t, ok := s.threads[videoID]
	if !ok {
		t = &thread{p: newPersister(s.deps, storeComments, CommentsKey(videoID), "Failed to save comments")}
		s.threads[videoID] = t
	}
	if !t.loaded {
		t.items, t.loaded = loadCollection(ctx, t.p, validation.DecodeComments, s.deps.Catalog.SeedComments)
	}
	return t
}

// List returns the comments of a video, newest first.
func (s *Comments) List(ctx context.Context, videoID string) []models.Comment {
	if !s.known(ctx, videoID) {
		return []models.Comment{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.thread(ctx, videoID).items)
}

// Add posts a comment under a video. An invalid draft returns
// ErrInvalidComment and changes nothing.
func (s *Comments) Add(ctx context.Context, videoID string, draft models.CommentDraft) (models.Comment, error) {
	if videoID == "" {
		return models.Comment{}, fmt.Errorf("%w: video id is required", ErrInvalidComment)
	}
	if !s.known(ctx, videoID) {
		return models.Comment{}, fmt.Errorf("%w: unknown video %q", ErrInvalidComment, videoID)
	}
	if err := s.deps.Validator.CommentDraft(&draft); err != nil {
		logger.Log.Warn("Comment rejected", zap.Error(err), zap.String("videoId", videoID))
		return models.Comment{}, fmt.Errorf("%w: %v", ErrInvalidComment, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.thread(ctx, videoID)

	c := models.Comment{
		ID:         "c" + s.deps.NewID(),
		Username:   draft.Username,
		ProfilePic: draft.ProfilePic,
		Content:    draft.Content,
		Timestamp:  format.JustNow,
		Likes:      0,
	}
	t.items = append([]models.Comment{c}, t.items...)
	metrics.StoreMutations.WithLabelValues(storeComments, "add").Inc()

	if err := t.p.save(ctx, "add", t.items, false); err != nil {
		return c, err
	}
	s.deps.Notifier.Success("Comment submitted!", "")
	return c, nil
}

// Like adds one like to a comment. It returns false when the comment is
// unknown or the change could not be persisted.
func (s *Comments) Like(ctx context.Context, videoID, commentID string) bool {
	if commentID == "" || !s.known(ctx, videoID) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.thread(ctx, videoID)

	idx := slices.IndexFunc(t.items, func(c models.Comment) bool { return c.ID == commentID })
	if idx < 0 {
		return false
	}
	t.items[idx].Likes++
	metrics.StoreMutations.WithLabelValues(storeComments, "like").Inc()

	return t.p.save(ctx, "like", t.items, false) == nil
}

// Remove deletes a comment. Removing the last comment leaves the thread
// empty across reloads.
func (s *Comments) Remove(ctx context.Context, videoID, commentID string) bool {
	if commentID == "" || !s.known(ctx, videoID) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.thread(ctx, videoID)

	idx := slices.IndexFunc(t.items, func(c models.Comment) bool { return c.ID == commentID })
	if idx < 0 {
		return false
	}
	t.items = slices.Delete(t.items, idx, idx+1)
	metrics.StoreMutations.WithLabelValues(storeComments, "remove").Inc()

	if err := t.p.save(ctx, "remove", t.items, len(t.items) == 0); err != nil {
		return false
	}
	s.deps.Notifier.Success("Comment deleted", "")
	return true
}

// Reload forgets every loaded thread.
func (s *Comments) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads = make(map[string]*thread)
}
