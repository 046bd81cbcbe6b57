package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ad-tracker/youtube-clone-state/internal/models"
	"github.com/ad-tracker/youtube-clone-state/internal/toast"
)

func TestChannelMeta_EnsureDerivesAndStores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := NewChannelMeta(f.deps)

	_, ok := s.Get(ctx, "Fireship")
	assert.False(t, ok)

	meta, ok := s.Ensure(ctx, "Fireship")
	require.True(t, ok)
	assert.Equal(t, "Fireship", meta.Name)
	assert.Equal(t, 4, meta.VideoCount)
	assert.NotEmpty(t, meta.Image)
	assert.Contains(t, meta.Subscribers, "subscribers")

	reloaded := NewChannelMeta(f.deps)
	got, ok := reloaded.Get(ctx, "Fireship")
	require.True(t, ok)
	assert.Equal(t, meta, got)

	_, ok = s.Ensure(ctx, "Nobody")
	assert.False(t, ok)
}

func TestChannelMeta_EnsureServesDerivedEntryWhenSaveFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := NewChannelMeta(f.deps)
	f.backend.failWrites.Store(true)

	meta, ok := s.Ensure(ctx, "Fireship")
	require.True(t, ok)
	assert.Equal(t, "Fireship", meta.Name)
	assert.Equal(t, []toast.Level{toast.LevelError}, f.levels())

	_, stored := f.stored(t, KeyChannels)
	assert.False(t, stored)
	got, ok := s.Get(ctx, "Fireship")
	require.True(t, ok)
	assert.Equal(t, meta, got)
}

func TestChannelMeta_ReadFailureKeepsStoredMap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stored := `{"Kept":{"name":"Kept","videoCount":1}}`
	f.put(t, KeyChannels, stored)
	s := NewChannelMeta(f.deps)

	f.backend.failReads.Store(true)
	meta, ok := s.Ensure(ctx, "Fireship")
	require.True(t, ok)
	assert.Equal(t, "Fireship", meta.Name)
	assert.False(t, s.Put(ctx, models.ChannelMeta{Name: "Other"}))
	raw, ok := f.stored(t, KeyChannels)
	require.True(t, ok)
	assert.Equal(t, stored, raw)

	f.backend.failReads.Store(false)
	_, ok = s.Get(ctx, "Kept")
	assert.True(t, ok)
}

func TestChannelMeta_Put(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := NewChannelMeta(f.deps)

	assert.False(t, s.Put(ctx, models.ChannelMeta{}))

	custom := models.ChannelMeta{Name: "Mine", Subscribers: "3 subscribers", Color: "#000000"}
	require.True(t, s.Put(ctx, custom))
	s.Ensure(ctx, "Fireship")

	assert.Equal(t, []string{"Fireship", "Mine"}, s.Names(ctx))
	got, ok := NewChannelMeta(f.deps).Get(ctx, "Mine")
	require.True(t, ok)
	assert.Equal(t, custom, got)
}

func TestChannelMeta_DropsBadEntries(t *testing.T) {
	f := newFixture(t)
	f.put(t, KeyChannels, `{"Good":{"image":"x","videoCount":2},"Bad":"nope"}`)

	s := NewChannelMeta(f.deps)
	assert.Equal(t, []string{"Good"}, s.Names(context.Background()))
	got, _ := s.Get(context.Background(), "Good")
	assert.Equal(t, "Good", got.Name)
	assert.Equal(t, 2, got.VideoCount)
}
