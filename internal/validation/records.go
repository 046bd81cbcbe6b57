package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ad-tracker/youtube-clone-state/internal/models"
)

var (
	// ErrMalformed is returned when a persisted value is not valid JSON.
	ErrMalformed = errors.New("persisted value is not valid JSON")

	// ErrWrongShape is returned when a persisted value is valid JSON of the wrong kind,
	// for example an object where an array was expected.
	ErrWrongShape = errors.New("persisted value has the wrong shape")
)

// Decoded is the result of decoding a persisted collection: the records that
// passed their guard and how many were dropped.
type Decoded[T any] struct {
	Records []T
	Dropped int
}

// decodeArray splits data into array elements and keeps those accepted by guard.
func decodeArray[T any](data []byte, guard func(json.RawMessage) (T, bool)) (Decoded[T], error) {
	var out Decoded[T]

	if !json.Valid(data) {
		return out, ErrMalformed
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '[' {
		return out, ErrWrongShape
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return out, fmt.Errorf("%w: %v", ErrWrongShape, err)
	}

	out.Records = make([]T, 0, len(raw))
	for _, item := range raw {
		rec, ok := guard(item)
		if !ok {
			out.Dropped++
			continue
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

// notificationRecord mirrors models.Notification with pointers so that
// missing or mistyped fields can be told apart from zero values.
type notificationRecord struct {
	ID              *string `json:"id"`
	Title           *string `json:"title"`
	Message         *string `json:"message"`
	Timestamp       *string `json:"timestamp"`
	IsRead          *bool   `json:"isRead"`
	Type            *string `json:"type"`
	ChannelName     *string `json:"channelName"`
	ChannelImageURL *string `json:"channelImageUrl"`
	VideoID         *string `json:"videoId"`
}

// DecodeNotifications decodes a persisted notification array, dropping
// records with a missing or mistyped field or an unknown type. Later
// records repeating an id are dropped too.
func DecodeNotifications(data []byte) (Decoded[models.Notification], error) {
	seen := make(map[string]bool)
	return decodeArray(data, func(item json.RawMessage) (models.Notification, bool) {
		var r notificationRecord
		if json.Unmarshal(item, &r) != nil {
			return models.Notification{}, false
		}
		if r.ID == nil || r.Title == nil || r.Message == nil || r.Timestamp == nil ||
			r.IsRead == nil || r.Type == nil || r.ChannelName == nil {
			return models.Notification{}, false
		}
		if !models.NotificationType(*r.Type).Valid() || seen[*r.ID] {
			return models.Notification{}, false
		}
		seen[*r.ID] = true
		return models.Notification{
			ID:              *r.ID,
			Title:           *r.Title,
			Message:         *r.Message,
			Timestamp:       *r.Timestamp,
			IsRead:          *r.IsRead,
			Type:            models.NotificationType(*r.Type),
			ChannelName:     *r.ChannelName,
			ChannelImageURL: deref(r.ChannelImageURL),
			VideoID:         deref(r.VideoID),
		}, true
	})
}

type channelRecord struct {
	ID           *string `json:"id"`
	Name         *string `json:"name"`
	ImageURL     *string `json:"imageUrl"`
	IsSubscribed *bool   `json:"isSubscribed"`
}

// DecodeChannels decodes a persisted subscription array. Records need a
// non-empty id and name; later duplicates of a name are dropped.
func DecodeChannels(data []byte) (Decoded[models.Channel], error) {
	seen := make(map[string]bool)
	return decodeArray(data, func(item json.RawMessage) (models.Channel, bool) {
		var r channelRecord
		if json.Unmarshal(item, &r) != nil {
			return models.Channel{}, false
		}
		if r.ID == nil || *r.ID == "" || r.Name == nil || *r.Name == "" || seen[*r.Name] {
			return models.Channel{}, false
		}
		if r.IsSubscribed != nil && !*r.IsSubscribed {
			return models.Channel{}, false
		}
		seen[*r.Name] = true
		return models.Channel{
			ID:           *r.ID,
			Name:         *r.Name,
			ImageURL:     deref(r.ImageURL),
			IsSubscribed: true,
		}, true
	})
}

type commentRecord struct {
	ID         *string  `json:"id"`
	Username   *string  `json:"username"`
	ProfilePic *string  `json:"profilePic"`
	Content    *string  `json:"content"`
	Timestamp  *string  `json:"timestamp"`
	Likes      *float64 `json:"likes"`
}

// DecodeComments decodes a persisted comment array.
func DecodeComments(data []byte) (Decoded[models.Comment], error) {
	return decodeArray(data, func(item json.RawMessage) (models.Comment, bool) {
		var r commentRecord
		if json.Unmarshal(item, &r) != nil {
			return models.Comment{}, false
		}
		if r.ID == nil || r.Username == nil || r.Content == nil || r.Timestamp == nil || r.Likes == nil {
			return models.Comment{}, false
		}
		if *r.Likes < 0 {
			return models.Comment{}, false
		}
		return models.Comment{
			ID:         *r.ID,
			Username:   *r.Username,
			ProfilePic: deref(r.ProfilePic),
			Content:    *r.Content,
			Timestamp:  *r.Timestamp,
			Likes:      int(*r.Likes),
		}, true
	})
}

type videoRecord struct {
	ID              *string `json:"id"`
	Title           *string `json:"title"`
	ThumbnailURL    *string `json:"thumbnailUrl"`
	ChannelName     *string `json:"channelName"`
	ChannelImageURL *string `json:"channelImageUrl"`
	Views           *string `json:"views"`
	Timestamp       *string `json:"timestamp"`
	Duration        *string `json:"duration"`
}

// DecodeVideos decodes a persisted video array. Only the display fields are
// checked; counters and optional fields are taken as they are.
func DecodeVideos(data []byte) (Decoded[models.Video], error) {
	return decodeArray(data, func(item json.RawMessage) (models.Video, bool) {
		var r videoRecord
		if json.Unmarshal(item, &r) != nil {
			return models.Video{}, false
		}
		if r.ID == nil || *r.ID == "" || r.Title == nil || r.ChannelName == nil ||
			r.Views == nil || r.Timestamp == nil {
			return models.Video{}, false
		}

		var v models.Video
		if json.Unmarshal(item, &v) != nil {
			return models.Video{}, false
		}
		return v, true
	})
}

// DecodeIDs decodes a persisted array of video ids, dropping non-string,
// empty and repeated entries.
func DecodeIDs(data []byte) (Decoded[string], error) {
	seen := make(map[string]bool)
	return decodeArray(data, func(item json.RawMessage) (string, bool) {
		var id string
		if json.Unmarshal(item, &id) != nil || id == "" || seen[id] {
			return "", false
		}
		seen[id] = true
		return id, true
	})
}

// DecodeObject checks that data is a JSON object and unmarshals it onto
// dst. Fields absent from data keep the values dst already holds.
func DecodeObject(data []byte, dst interface{}) error {
	if !json.Valid(data) {
		return ErrMalformed
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrWrongShape
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrWrongShape, err)
	}
	return nil
}

// DecodeChannelMeta decodes a persisted map of channel metadata keyed by
// channel name. Entries whose value is not an object are dropped.
func DecodeChannelMeta(data []byte) (map[string]models.ChannelMeta, int, error) {
	var raw map[string]json.RawMessage
	if err := DecodeObject(data, &raw); err != nil {
		return nil, 0, err
	}

	out := make(map[string]models.ChannelMeta, len(raw))
	dropped := 0
	for name, item := range raw {
		var meta models.ChannelMeta
		if name == "" || DecodeObject(item, &meta) != nil {
			dropped++
			continue
		}
		meta.Name = name
		out[name] = meta
	}
	return out, dropped, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
