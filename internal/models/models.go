// Package models contains the records persisted by the state stores and the
// read-only catalog records they refer to.
package models

// NotificationType is the category shown next to a notification.
type NotificationType string

// NotificationType constants define the kinds of notification the UI renders.
const (
	NotificationUpload         NotificationType = "upload"
	NotificationComment        NotificationType = "comment"
	NotificationSubscription   NotificationType = "subscription"
	NotificationRecommendation NotificationType = "recommendation"
	NotificationUpdate         NotificationType = "update"
)

// NotificationTypes lists every valid NotificationType.
var NotificationTypes = []NotificationType{
	NotificationUpload,
	NotificationComment,
	NotificationSubscription,
	NotificationRecommendation,
	NotificationUpdate,
}

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	for _, known := range NotificationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Notification is a single entry in the user's notification feed.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Notification struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Message         string           `json:"message"`
	Timestamp       string           `json:"timestamp"`
	IsRead          bool             `json:"isRead"`
	Type            NotificationType `json:"type"`
	ChannelName     string           `json:"channelName"`
	ChannelImageURL string           `json:"channelImageUrl,omitempty"`
	VideoID         string           `json:"videoId,omitempty"`
}

// NotificationDraft is a notification before it gets an id and read state.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type NotificationDraft struct {
	Title           string           `json:"title" validate:"required"`
	Message         string           `json:"message" validate:"required"`
	Timestamp       string           `json:"timestamp"`
	Type            NotificationType `json:"type" validate:"required,notificationtype"`
	ChannelName     string           `json:"channelName" validate:"required"`
	ChannelImageURL string           `json:"channelImageUrl,omitempty" validate:"omitempty,url"`
	VideoID         string           `json:"videoId,omitempty" validate:"omitempty,videoid"`
}

// Channel is a subscribed channel reference. IsSubscribed is always true for
// stored entries; it is kept for the UI's benefit.
type Channel struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ImageURL     string `json:"imageUrl"`
	IsSubscribed bool   `json:"isSubscribed"`
}

// SocialLinks are the optional links shown on the channel page.
type SocialLinks struct {
	Website   string `json:"website"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	TikTok    string `json:"tiktok"`
}

// Settings are the user's UI preferences.
type Settings struct {
	DarkMode       bool `json:"darkMode"`
	Autoplay       bool `json:"autoplay"`
	RestrictedMode bool `json:"restrictedMode"`
	Notifications  bool `json:"notifications"`
}

// UserProfile is the single profile record of the local user.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type UserProfile struct {
	Username        string      `json:"username"`
	DisplayName     string      `json:"displayName"`
	Email           string      `json:"email"`
	Bio             string      `json:"bio"`
	Description     string      `json:"description"`
	ProfilePicture  string      `json:"profilePicture"`
	BannerURL       string      `json:"bannerUrl"`
	BannerColor     string      `json:"bannerColor"`
	SubscriberCount int64       `json:"subscriberCount"`
	Subscribers     int64       `json:"subscribers"`
	JoinDate        string      `json:"joinDate"`
	TotalViews      int64       `json:"totalViews"`
	Location        string      `json:"location"`
	SocialLinks     SocialLinks `json:"socialLinks"`
	Settings        Settings    `json:"settings"`
}

// Comment is a comment under a video.
type Comment struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp"`
	Likes      int    `json:"likes"`
}

// CommentDraft is a comment before it gets an id.
type CommentDraft struct {
	Username   string `json:"username" validate:"required"`
	ProfilePic string `json:"profilePic" validate:"omitempty,url"`
	Content    string `json:"content" validate:"required,max=10000"`
}

// ChannelMeta is the display metadata of a channel page.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChannelMeta struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Banner      string `json:"banner"`
	Subscribers string `json:"subscribers"`
	VideoCount  int    `json:"videoCount"`
	Color       string `json:"color"`
	YouTubeID   string `json:"youtubeId,omitempty"`
}

// Video is a long-form video or a short.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Video struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	ChannelName     string `json:"channelName"`
	ChannelImageURL string `json:"channelImageUrl"`
	Views           string `json:"views"`
	Timestamp       string `json:"timestamp"`
	Duration        string `json:"duration"`
	VideoID         string `json:"videoId,omitempty"`
	Description     string `json:"description,omitempty"`
	Likes           int    `json:"likes,omitempty"`
	Dislikes        int    `json:"dislikes,omitempty"`
	Comments        int    `json:"comments,omitempty"`
	Category        string `json:"category,omitempty"`
	IsShort         bool   `json:"isShort,omitempty"`
}

// UploadDraft is a user upload before it gets an id and counters.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type UploadDraft struct {
	Title        string `json:"title" validate:"required,max=100"`
	Description  string `json:"description" validate:"max=5000"`
	ThumbnailURL string `json:"thumbnailUrl"`
	VideoID      string `json:"videoId" validate:"omitempty,videoid"`
	Duration     string `json:"duration"`
	Category     string `json:"category"`
	IsShort      bool   `json:"isShort"`
}

// VideoView is a catalog video joined with the user's state at read time.
type VideoView struct {
	Video
	IsSubscribed bool `json:"isSubscribed"`
	IsLiked      bool `json:"isLiked"`
	IsSaved      bool `json:"isSaved"`
}
