package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ad-tracker/youtube-clone-state/internal/metrics"
	"github.com/ad-tracker/youtube-clone-state/internal/models"
	"github.com/ad-tracker/youtube-clone-state/internal/validation"
	"github.com/ad-tracker/youtube-clone-state/pkg/logger"
)

const storeProfile = "profile"

// BannerColors is the palette GenerateBannerColor picks from.
var BannerColors = []string{
	"#4285F4",
	"#DB4437",
	"#F4B400",
	"#0F9D58",
	"#7B1FA2",
	"#C2185B",
	"#00796B",
	"#FFA000",
	"#607D8B",
}

// DefaultProfile returns the profile of a user who has never edited theirs.
func DefaultProfile(now time.Time) models.UserProfile {
	return models.UserProfile{
		Username:        "YourChannelName",
		DisplayName:     "Your Name",
		Email:           "your.email@example.com",
		Bio:             "Welcome to my channel! I create videos about technology, programming, and digital culture.",
		Description:     "This is my YouTube channel where I share tutorials, reviews, and insights about technology and programming. Subscribe for weekly content!",
		ProfilePicture:  "https://github.com/shadcn.png",
		BannerColor:     "#4285F4",
		SubscriberCount: 1024,
		Subscribers:     1024,
		JoinDate:        now.UTC().Format(time.RFC3339),
		TotalViews:      15240,
		Location:        "San Francisco, CA",
		SocialLinks: models.SocialLinks{
			Website:   "https://example.com",
			Twitter:   "yourtwitter",
			Instagram: "yourinstagram",
		},
		Settings: models.Settings{
			DarkMode:       true,
			Autoplay:       true,
			RestrictedMode: false,
			Notifications:  true,
		},
	}
}

// ProfilePatch is a partial profile update. Nil fields are left unchanged.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ProfilePatch struct {
	Username        *string             `json:"username,omitempty"`
	DisplayName     *string             `json:"displayName,omitempty"`
	Email           *string             `json:"email,omitempty"`
	Bio             *string             `json:"bio,omitempty"`
	Description     *string             `json:"description,omitempty"`
	ProfilePicture  *string             `json:"profilePicture,omitempty"`
	BannerURL       *string             `json:"bannerUrl,omitempty"`
	BannerColor     *string             `json:"bannerColor,omitempty"`
	SubscriberCount *int64              `json:"subscriberCount,omitempty"`
	TotalViews      *int64              `json:"totalViews,omitempty"`
	Location        *string             `json:"location,omitempty"`
	SocialLinks     *SocialLinksPatch   `json:"socialLinks,omitempty"`
	Settings        *SettingsPatch      `json:"settings,omitempty"`
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	DarkMode       *bool `json:"darkMode,omitempty"`
	Autoplay       *bool `json:"autoplay,omitempty"`
	RestrictedMode *bool `json:"restrictedMode,omitempty"`
	Notifications  *bool `json:"notifications,omitempty"`
}

// SocialLinksPatch is a partial social links update. Nil fields are left
// unchanged; an empty string clears a link.
type SocialLinksPatch struct {
	Website   *string `json:"website,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	TikTok    *string `json:"tiktok,omitempty"`
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (p SettingsPatch) apply(s *models.Settings) {
	setIf(&s.DarkMode, p.DarkMode)
	setIf(&s.Autoplay, p.Autoplay)
	setIf(&s.RestrictedMode, p.RestrictedMode)
	setIf(&s.Notifications, p.Notifications)
}

func (p SocialLinksPatch) apply(l *models.SocialLinks) {
	setIf(&l.Website, p.Website)
	setIf(&l.Twitter, p.Twitter)
	setIf(&l.Instagram, p.Instagram)
	setIf(&l.TikTok, p.TikTok)
}

func (p ProfilePatch) apply(u *models.UserProfile) {
	setIf(&u.Username, p.Username)
	setIf(&u.DisplayName, p.DisplayName)
	setIf(&u.Email, p.Email)
	setIf(&u.Bio, p.Bio)
	setIf(&u.Description, p.Description)
	setIf(&u.ProfilePicture, p.ProfilePicture)
	setIf(&u.BannerURL, p.BannerURL)
	setIf(&u.BannerColor, p.BannerColor)
	setIf(&u.SubscriberCount, p.SubscriberCount)
	setIf(&u.TotalViews, p.TotalViews)
	setIf(&u.Location, p.Location)
	if p.SocialLinks != nil {
		p.SocialLinks.apply(&u.SocialLinks)
	}
	if p.Settings != nil {
		p.Settings.apply(&u.Settings)
	}
}

// Profile is the local user's profile.
type Profile struct {
	deps    Deps
	p       *persister
	profile models.UserProfile
	loaded  bool
	mu      sync.Mutex
}

// NewProfile creates the profile store.
func NewProfile(deps Deps) *Profile {
	deps = deps.withDefaults()
	return &Profile{
		deps: deps,
		p:    newPersister(deps, storeProfile, KeyUserData, "Failed to save user data"),
	}
}

// ensure loads the stored profile merged over the defaults. Anything that
// is not a JSON object is ignored in favour of the defaults. A failed read
// serves the defaults unsaved and is retried on the next access.
func (s *Profile) ensure(ctx context.Context) {
	if s.loaded {
		return
	}

	defaults := DefaultProfile(s.deps.Now())
	raw, ok, err := s.p.backend.Get(ctx, s.p.key)
	if err != nil {
		s.p.fallback(reasonBackend, err)
		s.profile = defaults
		return
	}
	s.loaded = true

	switch {
	case !ok:
		s.p.fallback(reasonAbsent, nil)
	default:
		merged := defaults
		if err := validation.DecodeObject([]byte(raw), &merged); err != nil {
			s.p.fallback(decodeReason(err), err)
			break
		}
		s.profile = merged
		return
	}

	s.profile = defaults
	_ = s.p.save(ctx, "seed", s.profile, false)
}

// Profile returns a copy of the profile with Subscribers mirroring
// SubscriberCount.
func (s *Profile) Profile(ctx context.Context) models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	s.profile.Subscribers = s.profile.SubscriberCount
	return s.profile
}

// Update merges patch into the profile and persists it. It returns false
// when the write fails; the change is kept in memory either way.
func (s *Profile) Update(ctx context.Context, patch ProfilePatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	patch.apply(&s.profile)
	s.profile.Subscribers = s.profile.SubscriberCount
	if !s.persist(ctx, "update") {
		return false
	}
	s.deps.Notifier.Success("Profile updated successfully", "")
	return true
}

// UpdateSettings merges patch into the settings only.
func (s *Profile) UpdateSettings(ctx context.Context, patch SettingsPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)

	patch.apply(&s.profile.Settings)
	if !s.persist(ctx, "update_settings") {
		return false
	}
	s.deps.Notifier.Success("Settings updated successfully", "")
	return true
}

// Reset restores the default profile and deletes the stored one.
func (s *Profile) Reset(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	s.profile = DefaultProfile(s.deps.Now())
	metrics.StoreMutations.WithLabelValues(storeProfile, "reset").Inc()
	if err := s.p.forget(ctx, "reset"); err != nil {
		return false
	}

	logger.Log.Info("Profile reset to defaults")
	s.deps.Notifier.Success("User data reset to default", "")
	return true
}

// GenerateBannerColor picks a colour from BannerColors.
func (s *Profile) GenerateBannerColor() string {
	return BannerColors[s.deps.IntN(len(BannerColors))]
}

func (s *Profile) persist(ctx context.Context, op string) bool {
	metrics.StoreMutations.WithLabelValues(storeProfile, op).Inc()
	if err := s.p.save(ctx, op, s.profile, false); err != nil {
		logger.Log.Debug("Profile change kept in memory only", zap.String("op", op))
		return false
	}
	return true
}

// Reload drops the in-memory profile so the next call reads the backend again.
func (s *Profile) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.p.marked = false
}
