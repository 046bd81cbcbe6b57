package validation

import (
	"strings"
	"testing"

	"github.com/ad-tracker/youtube-clone-state/internal/models"
)

func TestValidator_NotificationDraft(t *testing.T) {
	v := New()

	valid := func() models.NotificationDraft {
		return models.NotificationDraft{
			Title:       "Fireship uploaded a new video",
			Message:     "The Future of React.js in 2024",
			Type:        models.NotificationUpload,
			ChannelName: "Fireship",
			VideoID:     "TNhaISOUy6Q",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*models.NotificationDraft)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid draft",
			mutate: func(*models.NotificationDraft) {},
		},
		{
			name:    "missing title",
			mutate:  func(d *models.NotificationDraft) { d.Title = "" },
			wantErr: true,
			errMsg:  "title is required",
		},
		{
			name:    "missing channel name",
			mutate:  func(d *models.NotificationDraft) { d.ChannelName = "" },
			wantErr: true,
			errMsg:  "channelName is required",
		},
		{
			name:    "unknown type",
			mutate:  func(d *models.NotificationDraft) { d.Type = "invalid-type" },
			wantErr: true,
			errMsg:  "is not a notification type",
		},
		{
			name:    "bad video id",
			mutate:  func(d *models.NotificationDraft) { d.VideoID = "short" },
			wantErr: true,
			errMsg:  "invalid video ID format",
		},
		{
			name:   "video id is optional",
			mutate: func(d *models.NotificationDraft) { d.VideoID = "" },
		},
		{
			name:    "channel image must be a url",
			mutate:  func(d *models.NotificationDraft) { d.ChannelImageURL = "not a url" },
			wantErr: true,
			errMsg:  "channelImageUrl must be a URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := valid()
			tt.mutate(&draft)

			err := v.NotificationDraft(&draft)
			if (err != nil) != tt.wantErr {
				t.Errorf("NotificationDraft() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("NotificationDraft() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestValidator_CommentAndUploadDrafts(t *testing.T) {
	v := New()

	if err := v.CommentDraft(&models.CommentDraft{Username: "You", Content: "Nice"}); err != nil {
		t.Errorf("CommentDraft() valid error = %v", err)
	}
	if err := v.CommentDraft(&models.CommentDraft{Username: "You"}); err == nil {
		t.Error("CommentDraft() without content should fail")
	}

	if err := v.UploadDraft(&models.UploadDraft{Title: "My First Coding Project"}); err != nil {
		t.Errorf("UploadDraft() valid error = %v", err)
	}
	if err := v.UploadDraft(&models.UploadDraft{Title: strings.Repeat("x", 101)}); err == nil {
		t.Error("UploadDraft() with long title should fail")
	} else if !strings.Contains(err.Error(), "at most 100") {
		t.Errorf("UploadDraft() error = %v", err)
	}
}

func TestIsValidVideoID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"dQw4w9WgXcQ", true},
		{"_lS-rLUwPwI", true},
		{"short", false},
		{"dQw4w9WgXcQ1", false},
		{"dQw4w9WgX@Q", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := IsValidVideoID(tt.id); got != tt.want {
				t.Errorf("IsValidVideoID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
