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

const (
	storeUploads = "uploads"

	defaultUploadDuration = "0:00"
	defaultUploadCategory = "General"
)

// Uploads is the list of videos the user uploaded, newest first. Uploads
// are credited to the current profile.
type Uploads struct {
	deps    Deps
	p       *persister
	profile *Profile
	videos  []models.Video
	loaded  bool
	mu      sync.Mutex
}

// NewUploads creates the uploads store.
func NewUploads(deps Deps, profile *Profile) *Uploads {
	deps = deps.withDefaults()
	return &Uploads{
		deps:    deps,
		p:       newPersister(deps, storeUploads, KeyUserVideos, "Failed to save your videos"),
		profile: profile,
	}
}

func (s *Uploads) ensure(ctx context.Context) {
	if s.loaded {
		return
	}
	s.videos, s.loaded = loadCollection(ctx, s.p, validation.DecodeVideos, func() []models.Video { return []models.Video{} })
}

// All returns the uploaded videos, newest first.
func (s *Uploads) All(ctx context.Context) []models.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)
	return slices.Clone(s.videos)
}

// Get returns one uploaded video.
func (s *Uploads) Get(ctx context.Context, id string) (models.Video, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	idx := slices.IndexFunc(s.videos, func(v models.Video) bool { return v.ID == id })
	if idx < 0 {
		return models.Video{}, false
	}
	return s.videos[idx], true
}

// Add records a new upload. An invalid draft returns ErrInvalidUpload.
func (s *Uploads) Add(ctx context.Context, draft models.UploadDraft) (models.Video, error) {
	if err := s.deps.Validator.UploadDraft(&draft); err != nil {
		logger.Log.Warn("Upload rejected", zap.Error(err), zap.String("title", draft.Title))
		return models.Video{}, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}

	// Read the profile before taking our own lock.
	var owner models.UserProfile
	if s.profile != nil {
		owner = s.profile.Profile(ctx)
	}

	v := models.Video{
		ID:              "u" + s.deps.NewID(),
		Title:           draft.Title,
		ThumbnailURL:    draft.ThumbnailURL,
		ChannelName:     owner.DisplayName,
		ChannelImageURL: owner.ProfilePicture,
		Views:           format.ViewCount(0),
		Timestamp:       format.JustNow,
		Duration:        draft.Duration,
		VideoID:         draft.VideoID,
		Description:     draft.Description,
		Category:        draft.Category,
		IsShort:         draft.IsShort,
	}
	if v.Duration == "" {
		v.Duration = defaultUploadDuration
	}
	if v.Category == "" {
		v.Category = defaultUploadCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	s.videos = append([]models.Video{v}, s.videos...)
	metrics.StoreMutations.WithLabelValues(storeUploads, "add").Inc()
	if err := s.p.save(ctx, "add", s.videos, false); err != nil {
		return v, err
	}

	s.deps.Notifier.Success("Video uploaded", v.Title)
	return v, nil
}

// Remove deletes an upload.
func (s *Uploads) Remove(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	idx := slices.IndexFunc(s.videos, func(v models.Video) bool { return v.ID == id })
	if idx < 0 {
		return false
	}
	removed := s.videos[idx]
	s.videos = slices.Delete(s.videos, idx, idx+1)
	metrics.StoreMutations.WithLabelValues(storeUploads, "remove").Inc()

	if err := s.p.save(ctx, "remove", s.videos, len(s.videos) == 0); err != nil {
		return false
	}
	s.deps.Notifier.Success("Video deleted", removed.Title)
	return true
}

// Reload drops the in-memory uploads so the next call reads the backend again.
func (s *Uploads) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.p.marked = false
}
