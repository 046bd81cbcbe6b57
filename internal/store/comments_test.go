package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ad-tracker/youtube-clone-state/internal/models"
)

func TestComments_SeededPerVideo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := NewComments(f.deps, nil)

	list := s.List(ctx, "v1")
	require.Len(t, list, 4)
	assert.Equal(t, "c1", list[0].ID)
	assert.Equal(t, "DevEnthusiast", list[0].Username)

	_, ok := f.stored(t, CommentsKey("v1"))
	assert.True(t, ok)
	_, ok = f.stored(t, CommentsKey("v2"))
	assert.False(t, ok, "threads are loaded on demand")

	assert.Empty(t, s.List(ctx, ""))
}

func TestComments_AddLikeRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := NewComments(f.deps, nil)

	c, err := s.Add(ctx, "v1", models.CommentDraft{Username: "ada", Content: "First!"})
	require.NoError(t, err)
	assert.Equal(t, "ctest-1", c.ID)
	assert.Equal(t, "Just now", c.Timestamp)
	assert.Zero(t, c.Likes)

	list := s.List(ctx, "v1")
	require.Len(t, list, 5)
	assert.Equal(t, c, list[0])
	assert.Len(t, s.List(ctx, "v2"), 4, "other videos are untouched")

	require.True(t, s.Like(ctx, "v1", c.ID))
	require.True(t, s.Like(ctx, "v1", c.ID))
	assert.Equal(t, 2, s.List(ctx, "v1")[0].Likes)
	assert.False(t, s.Like(ctx, "v1", "missing"))

	require.True(t, s.Remove(ctx, "v1", c.ID))
	assert.False(t, s.Remove(ctx, "v1", c.ID))
	assert.Len(t, s.List(ctx, "v1"), 4)

	assert.Equal(t, []string{"Comment submitted!", "Comment deleted"}, f.titles())
}

func TestComments_AddRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		videoID string
		draft   models.CommentDraft
	}{
		{name: "no video", videoID: "", draft: models.CommentDraft{Username: "a", Content: "b"}},
		{name: "unknown video", videoID: "nope", draft: models.CommentDraft{Username: "a", Content: "b"}},
		{name: "no username", videoID: "v1", draft: models.CommentDraft{Content: "b"}},
		{name: "no content", videoID: "v1", draft: models.CommentDraft{Username: "a"}},
		{name: "bad picture url", videoID: "v1", draft: models.CommentDraft{Username: "a", Content: "b", ProfilePic: "not a url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			s := NewComments(f.deps, nil)

			_, err := s.Add(context.Background(), tt.videoID, tt.draft)
			assert.ErrorIs(t, err, ErrInvalidComment)
			assert.Empty(t, f.titles())
		})
	}
}

func TestComments_RemovingLastCommentSurvivesReload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := NewComments(f.deps, nil)

	for _, c := range s.List(ctx, "v9") {
		require.True(t, s.Remove(ctx, "v9", c.ID))
	}
	assert.Empty(t, s.List(ctx, "v9"))

	assert.Empty(t, NewComments(f.deps, nil).List(ctx, "v9"))
}

func TestComments_OnlyKnownVideosHaveThreads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uploads := NewUploads(f.deps, nil)
	s := NewComments(f.deps, uploads)

	for _, id := range []string{"nope", "v1-typo", "u404"} {
		assert.Empty(t, s.List(ctx, id))
		assert.False(t, s.Like(ctx, id, "c1"))
		assert.False(t, s.Remove(ctx, id, "c1"))
		_, ok := f.stored(t, CommentsKey(id))
		assert.False(t, ok, "no thread is written for %s", id)
	}
	assert.Empty(t, s.threads)

	upload, err := uploads.Add(ctx, models.UploadDraft{Title: "My first upload"})
	require.NoError(t, err)

	c, err := s.Add(ctx, upload.ID, models.CommentDraft{Username: "ada", Content: "Nice"})
	require.NoError(t, err)
	assert.Equal(t, c, s.List(ctx, upload.ID)[0])
	_, ok := f.stored(t, CommentsKey(upload.ID))
	assert.True(t, ok)
	assert.Len(t, s.threads, 1)
}
