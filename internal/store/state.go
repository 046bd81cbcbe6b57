package store

import (
	"context"

	"github.com/ad-tracker/youtube-clone-state/internal/catalog"
	"github.com/ad-tracker/youtube-clone-state/internal/models"
)

// State bundles every store over one backend.
type State struct {
	Catalog       *catalog.Catalog
	Notifications *Notifications
	Subscriptions *Subscriptions
	Likes         *VideoSet
	WatchLater    *VideoSet
	Profile       *Profile
	Comments      *Comments
	Channels      *ChannelMeta
	Uploads       *Uploads
}

// NewState creates all stores sharing deps.
func NewState(deps Deps) *State {
	deps = deps.withDefaults()
	profile := NewProfile(deps)
	uploads := NewUploads(deps, profile)
	return &State{
		Catalog:       deps.Catalog,
		Notifications: NewNotifications(deps),
		Subscriptions: NewSubscriptions(deps),
		Likes:         NewLikes(deps),
		WatchLater:    NewWatchLater(deps),
		Profile:       profile,
		Comments:      NewComments(deps, uploads),
		Channels:      NewChannelMeta(deps),
		Uploads:       uploads,
	}
}

// Initialize loads the stores the UI reads at startup.
func (s *State) Initialize(ctx context.Context) {
	s.Subscriptions.Initialize(ctx)
	_ = s.Notifications.UnreadCount(ctx)
	_ = s.Profile.Profile(ctx)
}

// Reload makes every store read the backend again, after the backend was
// changed underneath them.
func (s *State) Reload(ctx context.Context) {
	s.Notifications.Reload()
	s.Likes.Reload()
	s.WatchLater.Reload()
	s.Profile.Reload()
	s.Comments.Reload()
	s.Channels.Reload()
	s.Uploads.Reload()
	s.Subscriptions.Initialize(ctx)
}

// Annotate joins catalog videos with the user's subscriptions, likes and
// Watch Later list.
func (s *State) Annotate(ctx context.Context, videos []models.Video) []models.VideoView {
	return catalog.Annotate(videos, catalog.Flags{
		Subscribed: func(name string) bool { return s.Subscriptions.IsSubscribed(ctx, name) },
		Liked:      func(id string) bool { return s.Likes.Contains(ctx, id) },
		Saved:      func(id string) bool { return s.WatchLater.Contains(ctx, id) },
	})
}

// Resolve maps video ids to catalog or uploaded videos, skipping unknown ids.
func (s *State) Resolve(ctx context.Context, ids []string) []models.Video {
	out := make([]models.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := s.Catalog.Lookup(id); ok {
			out = append(out, v)
			continue
		}
		if v, ok := s.Uploads.Get(ctx, id); ok {
			out = append(out, v)
		}
	}
	return out
}

// Reset restores a store to its defaults by name. It reports false for an
// unknown name or a failed write.
func (s *State) Reset(ctx context.Context, name string) bool {
	switch name {
	case storeNotifications:
		return s.Notifications.Reset(ctx)
	case storeProfile:
		return s.Profile.Reset(ctx)
	case storeSubscriptions:
		return s.Subscriptions.Reset(ctx)
	case "likes":
		return s.Likes.Clear(ctx)
	case "watch_later":
		return s.WatchLater.Clear(ctx)
	default:
		return false
	}
}

// ResettableStores lists the names Reset accepts.
var ResettableStores = []string{storeNotifications, storeProfile, storeSubscriptions, "likes", "watch_later"}
