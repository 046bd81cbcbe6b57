package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ad-tracker/youtube-clone-state/internal/models"
)

func TestState_Annotate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := NewState(f.deps)

	state.Likes.SetLiked(ctx, "v1", true)
	state.WatchLater.Set(ctx, "v2", true)

	v1, ok := state.Catalog.Video("v1")
	require.True(t, ok)
	v2, ok := state.Catalog.Video("v2")
	require.True(t, ok)

	views := state.Annotate(ctx, []models.Video{v1, v2})
	require.Len(t, views, 2)
	assert.True(t, views[0].IsLiked)
	assert.False(t, views[0].IsSaved)
	assert.False(t, views[1].IsLiked)
	assert.True(t, views[1].IsSaved)
	assert.Equal(t, state.Subscriptions.IsSubscribed(ctx, v1.ChannelName), views[0].IsSubscribed)

	original, _ := state.Catalog.Video("v1")
	assert.Equal(t, v1, original, "catalog records are not mutated")
}

func TestState_SubscriptionReflectedOnRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := NewState(f.deps)

	videos := state.Catalog.ByChannel("Web Dev Simplified")
	require.NotEmpty(t, videos)
	for _, v := range state.Annotate(ctx, videos) {
		assert.False(t, v.IsSubscribed)
	}

	state.Subscriptions.Toggle(ctx, "Web Dev Simplified", true)
	for _, v := range state.Annotate(ctx, videos) {
		assert.True(t, v.IsSubscribed)
	}
}

func TestState_Resolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := NewState(f.deps)

	up, err := state.Uploads.Add(ctx, models.UploadDraft{Title: "mine"})
	require.NoError(t, err)

	got := state.Resolve(ctx, []string{"v1", "missing", up.ID, "p1"})
	ids := make([]string, 0, len(got))
	for _, v := range got {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"v1", up.ID, "p1"}, ids)
}

func TestState_Reset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := NewState(f.deps)
	state.Initialize(ctx)

	for _, name := range ResettableStores {
		assert.True(t, state.Reset(ctx, name), name)
	}
	assert.False(t, state.Reset(ctx, "everything"))
}

func TestState_ReloadPicksUpBackendChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := NewState(f.deps)

	assert.Empty(t, state.Likes.IDs(ctx))
	assert.Equal(t, "Your Name", state.Profile.Profile(ctx).DisplayName)

	f.put(t, KeyLikedVideos, `["v3"]`)
	f.put(t, KeyUserData, `{"displayName":"Imported"}`)
	assert.Empty(t, state.Likes.IDs(ctx), "memory wins until reload")

	state.Reload(ctx)
	assert.Equal(t, []string{"v3"}, state.Likes.IDs(ctx))
	assert.Equal(t, "Imported", state.Profile.Profile(ctx).DisplayName)
}
