package store

import (
	"context"
	"fmt"

	"github.com/ad-tracker/youtube-clone-state/internal/format"
	"github.com/ad-tracker/youtube-clone-state/internal/models"
)

type sampleChannel struct {
	name    string
	image   string
	videoID string
}

var sampleChannels = []sampleChannel{
	{"Fireship", "https://yt3.googleusercontent.com/ytc/APkrFKb--NH6RwAGHYsD3KfxX-SAgWgIHrjx5tiYJ8rH=s176-c-k-c0x00ffffff-no-rj", "HPz8KIqwlIU"},
	{"Web Dev Simplified", "https://yt3.googleusercontent.com/ytc/APkrFKZWeMCsx4Q9e_Hm6nhOOUQ3fv96QGUXiMr1-pPP=s176-c-k-c0x00ffffff-no-rj", "4F2m91eKmJk"},
	{"Theo", "https://yt3.googleusercontent.com/ytc/APkrFKaSHW81jrtcwz5cKa3uWcMMsRX1AYrdTsArxBLc=s176-c-k-c0x00ffffff-no-rj", "N9y-7AWbVBc"},
	{"Kevin Powell", "https://yt3.googleusercontent.com/ytc/APkrFKa6XiLa13mMVPzkmmTBcgNPjjqCGPrY8J75IypqOA=s176-c-k-c0x00ffffff-no-rj", "_lS-rLUwPwI"},
}

// RandomDraft builds a plausible notification from a fixed pool of channels.
func (s *Notifications) RandomDraft() models.NotificationDraft {
	ch := sampleChannels[s.deps.IntN(len(sampleChannels))]
	kind := models.NotificationTypes[s.deps.IntN(len(models.NotificationTypes))]

	var title, message string
	switch kind {
	case models.NotificationUpload:
		title = ch.name + " just uploaded"
		message = "Check out their latest video"
		if s.deps.IntN(2) == 0 {
			message = "New short video is available"
		}
	case models.NotificationComment:
		title = "New comment on your video"
		message = fmt.Sprintf("%s replied: \"Great video, thanks for sharing\"", ch.name)
	case models.NotificationSubscription:
		title = ch.name + " subscribed to your channel"
		message = "You have a new subscriber!"
	case models.NotificationRecommendation:
		title = "Recommended for you"
		message = "We think you'll like this video from " + ch.name
	default:
		title = "YouTube Updates"
		message = "New features have been added to YouTube"
	}

	return models.NotificationDraft{
		Title:           title,
		Message:         message,
		Timestamp:       format.JustNow,
		Type:            kind,
		ChannelName:     ch.name,
		ChannelImageURL: ch.image,
		VideoID:         ch.videoID,
	}
}

// GenerateRandom adds one random notification.
func (s *Notifications) GenerateRandom(ctx context.Context) (string, error) {
	return s.Add(ctx, s.RandomDraft())
}

// GenerateTest adds count random notifications and returns how many were
// added. A count below one means five.
func (s *Notifications) GenerateTest(ctx context.Context, count int) int {
	if count < 1 {
		count = 5
	}

	added := 0
	for range count {
		if _, err := s.GenerateRandom(ctx); err == nil {
			added++
		}
	}

	s.deps.Notifier.Success(fmt.Sprintf("Generated %d test notifications", added), "")
	return added
}
