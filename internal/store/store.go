// Package store holds the user's local state: notifications, subscriptions,
// liked and saved videos, the profile, comments, channel metadata and
// uploads. Every store loads lazily from a kv.Backend on first use, keeps
// its collection in memory and writes it back after each mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ad-tracker/youtube-clone-state/internal/catalog"
	"github.com/ad-tracker/youtube-clone-state/internal/kv"
	"github.com/ad-tracker/youtube-clone-state/internal/metrics"
	"github.com/ad-tracker/youtube-clone-state/internal/toast"
	"github.com/ad-tracker/youtube-clone-state/internal/validation"
	"github.com/ad-tracker/youtube-clone-state/pkg/logger"
)

// Persisted keys.
const (
	KeyPrefix        = "youtube-clone-"
	KeyNotifications = KeyPrefix + "notifications"
	KeyUserData      = KeyPrefix + "user-data"
	KeySubscriptions = KeyPrefix + "subscriptions"
	KeyLikedVideos   = KeyPrefix + "liked-videos"
	KeySavedVideos   = KeyPrefix + "saved-videos"
	KeyChannels      = KeyPrefix + "channels"
	KeyUserVideos    = KeyPrefix + "user-videos"

	commentsKeyPrefix = KeyPrefix + "comments-"
	sentinelSuffix    = ":initialized"
	sentinelValue     = "1"
)

// CommentsKey returns the key holding the comments of one video.
func CommentsKey(videoID string) string {
	return commentsKeyPrefix + videoID
}

// SentinelKey returns the key recording that key has been seeded once. A
// seeded key that is absent means the user cleared the collection.
func SentinelKey(key string) string {
	return key + sentinelSuffix
}

var (
	// ErrInvalidNotification is returned by Notifications.Add for a draft
	// that fails validation.
	ErrInvalidNotification = errors.New("invalid notification")

	// ErrInvalidComment is returned by Comments.Add for a draft that fails validation.
	ErrInvalidComment = errors.New("invalid comment")

	// ErrInvalidUpload is returned by Uploads.Add for a draft that fails validation.
	ErrInvalidUpload = errors.New("invalid upload")

	// ErrNotPersisted is returned when a change was applied in memory but
	// could not be written to the backend.
	ErrNotPersisted = errors.New("change was not persisted")
)

// Deps are the collaborators shared by every store. Nil fields are filled
// in by the constructors. IntN must be safe for concurrent use.
type Deps struct {
	Backend   kv.Backend
	Notifier  toast.Notifier
	Validator *validation.Validator
	Catalog   *catalog.Catalog
	Now       func() time.Time
	NewID     func() string
	IntN      func(n int) int
}

func (d Deps) withDefaults() Deps {
	if d.Backend == nil {
		d.Backend = kv.NewMemory(0)
	}
	if d.Notifier == nil {
		d.Notifier = toast.Discard
	}
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	if d.Catalog == nil {
		d.Catalog = catalog.MustLoad()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = newID
	}
	if d.IntN == nil {
		d.IntN = rand.IntN
	}
	return d
}

// newID returns a time-ordered unique id.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// persister reads and writes one key on behalf of a store and reports
// failures the same way for all of them.
type persister struct {
	store     string
	key       string
	failTitle string
	backend   kv.Backend
	notifier  toast.Notifier
	marked    bool
}

func newPersister(d Deps, store, key, failTitle string) *persister {
	return &persister{
		store:     store,
		key:       key,
		failTitle: failTitle,
		backend:   d.Backend,
		notifier:  d.Notifier,
	}
}

func (p *persister) fields(op string) []zap.Field {
	return []zap.Field{
		zap.String("store", p.store),
		zap.String("key", p.key),
		zap.String("op", op),
	}
}

// sentinel reports whether the sentinel for the key is present.
func (p *persister) sentinel(ctx context.Context) (bool, error) {
	_, ok, err := p.backend.Get(ctx, SentinelKey(p.key))
	if err != nil {
		return false, err
	}
	p.marked = ok
	return ok, nil
}

// seeded is sentinel with a read error counted as not seeded.
func (p *persister) seeded(ctx context.Context) bool {
	ok, err := p.sentinel(ctx)
	if err != nil {
		logger.Log.Warn("Failed to read store sentinel", append(p.fields("load"), zap.Error(err))...)
		return false
	}
	return ok
}

// save writes value under the key, or removes the key when empty is set.
// The sentinel is written alongside the first successful save.
func (p *persister) save(ctx context.Context, op string, value interface{}, empty bool) error {
	var err error
	if empty {
		err = p.backend.Remove(ctx, p.key)
	} else {
		var data []byte
		data, err = json.Marshal(value)
		if err == nil {
			err = p.backend.Set(ctx, p.key, string(data))
		}
	}
	if err == nil && !p.marked {
		if err = p.backend.Set(ctx, SentinelKey(p.key), sentinelValue); err == nil {
			p.marked = true
		}
	}
	if err != nil {
		p.fail(op, err)
		return errors.Join(ErrNotPersisted, err)
	}
	return nil
}

// forget removes the key and its sentinel so the next load reseeds.
func (p *persister) forget(ctx context.Context, op string) error {
	err := errors.Join(
		p.backend.Remove(ctx, p.key),
		p.backend.Remove(ctx, SentinelKey(p.key)),
	)
	p.marked = false
	if err != nil {
		p.fail(op, err)
		return errors.Join(ErrNotPersisted, err)
	}
	return nil
}

func (p *persister) fail(op string, err error) {
	logger.Log.Error("Failed to persist store", append(p.fields(op), zap.Error(err))...)
	metrics.PersistFailures.WithLabelValues(p.store, op).Inc()

	description := "Your changes will be lost when the page reloads"
	if kv.IsQuotaExceeded(err) {
		description = "Storage is full. " + description
	}
	p.notifier.Error(p.failTitle, description)
}

func (p *persister) fallback(reason string, err error) {
	fields := append(p.fields("load"), zap.String("reason", reason))
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.Log.Warn("Falling back to default state", fields...)
	metrics.LoadFallbacks.WithLabelValues(p.store, reason).Inc()
}

// Fallback reasons.
const (
	reasonBackend   = "backend_error"
	reasonAbsent    = "absent"
	reasonMalformed = "malformed"
	reasonShape     = "wrong_shape"
	reasonInvalid   = "invalid_records"
	reasonEmpty     = "empty"
)

func decodeReason(err error) string {
	if errors.Is(err, validation.ErrMalformed) {
		return reasonMalformed
	}
	return reasonShape
}

// loadCollection reads an array-valued key. Absent, unparsable or invalid
// values fall back to defaults, which are persisted straight away. A key
// that is absent or empty after seeding loads as an empty collection.
//
// When the backend cannot be read the defaults are returned unsaved and
// loaded is false, so the caller retries on its next access.
func loadCollection[T any](ctx context.Context, p *persister, decode func([]byte) (validation.Decoded[T], error), defaults func() []T) (records []T, loaded bool) {
	raw, ok, err := p.backend.Get(ctx, p.key)
	if err != nil {
		p.fallback(reasonBackend, err)
		return defaults(), false
	}
	if !ok {
		seeded, err := p.sentinel(ctx)
		switch {
		case err != nil:
			p.fallback(reasonBackend, err)
			return defaults(), false
		case seeded:
			return []T{}, true
		}
		p.fallback(reasonAbsent, nil)
		return seedCollection(ctx, p, defaults), true
	}

	decoded, err := decode([]byte(raw))
	if err != nil {
		p.fallback(decodeReason(err), err)
		return seedCollection(ctx, p, defaults), true
	}
	if decoded.Dropped > 0 {
		metrics.RecordsDropped.WithLabelValues(p.store).Add(float64(decoded.Dropped))
		logger.Log.Warn("Dropped invalid persisted records",
			append(p.fields("load"), zap.Int("dropped", decoded.Dropped))...)
	}

	if len(decoded.Records) == 0 {
		if decoded.Dropped > 0 {
			p.fallback(reasonInvalid, nil)
			return seedCollection(ctx, p, defaults), true
		}
		seeded, err := p.sentinel(ctx)
		switch {
		case err != nil:
			p.fallback(reasonBackend, err)
			return defaults(), false
		case !seeded:
			p.fallback(reasonEmpty, nil)
			return seedCollection(ctx, p, defaults), true
		}
		return decoded.Records, true
	}

	if !p.marked && !p.seeded(ctx) {
		if err := p.backend.Set(ctx, SentinelKey(p.key), sentinelValue); err != nil {
			logger.Log.Warn("Failed to write store sentinel", append(p.fields("load"), zap.Error(err))...)
		} else {
			p.marked = true
		}
	}
	return decoded.Records, true
}

func seedCollection[T any](ctx context.Context, p *persister, defaults func() []T) []T {
	records := defaults()
	_ = p.save(ctx, "seed", records, len(records) == 0)
	return records
}
