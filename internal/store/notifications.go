package store

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ad-tracker/youtube-clone-state/internal/metrics"
	"github.com/ad-tracker/youtube-clone-state/internal/models"
	"github.com/ad-tracker/youtube-clone-state/internal/validation"
	"github.com/ad-tracker/youtube-clone-state/pkg/logger"
)

//go:embed seed/*.json
var seedFS embed.FS

func readSeed(name string, dst interface{}) {
	data, err := seedFS.ReadFile("seed/" + name)
	if err != nil {
		panic(fmt.Sprintf("store: missing seed %s: %v", name, err))
	}
	if err := json.Unmarshal(data, dst); err != nil {
		panic(fmt.Sprintf("store: malformed seed %s: %v", name, err))
	}
}

const storeNotifications = "notifications"

// Notifications is the user's notification feed, most recent first.
type Notifications struct {
	deps   Deps
	p      *persister
	items  []models.Notification
	loaded bool
	mu     sync.Mutex
}

// NewNotifications creates the notification store. Nothing is read from the
// backend until the first call.
func NewNotifications(deps Deps) *Notifications {
	deps = deps.withDefaults()
	return &Notifications{
		deps: deps,
		p:    newPersister(deps, storeNotifications, KeyNotifications, "Failed to save notifications"),
	}
}

// DefaultNotifications returns the compiled-in notification feed.
func DefaultNotifications() []models.Notification {
	var items []models.Notification
	readSeed("notifications.json", &items)
	return items
}

func initialNotifications() []models.NotificationDraft {
	var drafts []models.NotificationDraft
	readSeed("initial_notifications.json", &drafts)
	return drafts
}

// firstRun is the feed of a user who has never opened the app: the defaults
// with the welcome notifications on top.
func (s *Notifications) firstRun() []models.Notification {
	items := DefaultNotifications()
	for _, draft := range initialNotifications() {
		items = append([]models.Notification{s.fromDraft(draft)}, items...)
	}
	return items
}

func (s *Notifications) fromDraft(draft models.NotificationDraft) models.Notification {
	return models.Notification{
		ID:              "n" + s.deps.NewID(),
		Title:           draft.Title,
		Message:         draft.Message,
		Timestamp:       draft.Timestamp,
		IsRead:          false,
		Type:            draft.Type,
		ChannelName:     draft.ChannelName,
		ChannelImageURL: draft.ChannelImageURL,
		VideoID:         draft.VideoID,
	}
}

func (s *Notifications) ensure(ctx context.Context) {
	if s.loaded {
		return
	}
	s.items, s.loaded = loadCollection(ctx, s.p, validation.DecodeNotifications, s.firstRun)
	s.observe()
	logger.Log.Debug("Notification store loaded", zap.Int("count", len(s.items)))
}

func (s *Notifications) unread() int {
	n := 0
	for _, item := range s.items {
		if !item.IsRead {
			n++
		}
	}
	return n
}

func (s *Notifications) observe() {
	metrics.UnreadNotifications.Set(float64(s.unread()))
}

func (s *Notifications) persist(ctx context.Context, op string) error {
	metrics.StoreMutations.WithLabelValues(storeNotifications, op).Inc()
	s.observe()
	return s.p.save(ctx, op, s.items, len(s.items) == 0)
}

// All returns a copy of the feed, most recent first.
func (s *Notifications) All(ctx context.Context) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	out := make([]models.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// UnreadCount returns the number of unread notifications.
func (s *Notifications) UnreadCount(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)
	return s.unread()
}

// Add validates draft and prepends it as a new unread notification. An
// invalid draft returns ErrInvalidNotification and changes nothing. When the
// notification is kept but could not be persisted the id is returned along
// with ErrNotPersisted.
func (s *Notifications) Add(ctx context.Context, draft models.NotificationDraft) (string, error) {
	if err := s.deps.Validator.NotificationDraft(&draft); err != nil {
		logger.Log.Warn("Notification rejected", zap.Error(err), zap.String("title", draft.Title))
		return "", fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	n := s.fromDraft(draft)
	s.items = append([]models.Notification{n}, s.items...)
	if err := s.persist(ctx, "add"); err != nil {
		return n.ID, err
	}

	s.deps.Notifier.Success("New notification received", n.Title)
	return n.ID, nil
}

// MarkRead marks one notification read. It returns false when id is unknown
// or the change could not be persisted.
func (s *Notifications) MarkRead(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	found := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].IsRead = true
			found = true
			break
		}
	}
	if !found {
		return false
	}
	return s.persist(ctx, "mark_read") == nil
}

// MarkAllRead marks every notification read. With nothing unread it returns
// true without writing or raising a toast.
func (s *Notifications) MarkAllRead(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	if s.unread() == 0 {
		return true
	}
	for i := range s.items {
		s.items[i].IsRead = true
	}
	if err := s.persist(ctx, "mark_all_read"); err != nil {
		return false
	}

	s.deps.Notifier.Success("All notifications marked as read", "")
	return true
}

// Remove deletes one notification. It returns false when id is unknown or
// the change could not be persisted.
func (s *Notifications) Remove(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	idx := -1
	for i, item := range s.items {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	removed := s.items[idx]
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	if err := s.persist(ctx, "remove"); err != nil {
		return false
	}

	s.deps.Notifier.Success("Notification removed", removed.Title)
	return true
}

// ClearAll empties the feed. The cleared state survives a reload; only
// Reset brings the defaults back.
func (s *Notifications) ClearAll(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	if len(s.items) == 0 {
		return true
	}
	s.items = []models.Notification{}
	if err := s.persist(ctx, "clear_all"); err != nil {
		return false
	}

	s.deps.Notifier.Success("All notifications cleared", "")
	return true
}

// Reset restores the compiled-in feed.
func (s *Notifications) Reset(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	s.items = DefaultNotifications()
	if err := s.p.forget(ctx, "reset"); err != nil {
		s.observe()
		return false
	}
	if err := s.persist(ctx, "reset"); err != nil {
		return false
	}

	s.deps.Notifier.Success("Notifications reset to default", "")
	return true
}

// Reload drops the in-memory feed so the next call reads the backend again.
func (s *Notifications) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.items = nil
	s.p.marked = false
}
