package catalog

import "github.com/ad-tracker/youtube-clone-state/internal/models"

// Flags supplies per-user state for Annotate. Nil functions count as false.
type Flags struct {
	Subscribed func(channelName string) bool
	Liked      func(videoID string) bool
	Saved      func(videoID string) bool
}

// Annotate joins videos with the user's state without touching the catalog.
func Annotate(videos []models.Video, flags Flags) []models.VideoView {
	views := make([]models.VideoView, len(videos))
	for i, v := range videos {
		views[i] = models.VideoView{
			Video:        v,
			IsSubscribed: flags.Subscribed != nil && flags.Subscribed(v.ChannelName),
			IsLiked:      flags.Liked != nil && flags.Liked(v.ID),
			IsSaved:      flags.Saved != nil && flags.Saved(v.ID),
		}
	}
	return views
}
