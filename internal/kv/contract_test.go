package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBackendContract runs the behaviour every Backend must share.
func testBackendContract(t *testing.T, backend Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key is not found", func(t *testing.T) {
		value, found, err := backend.Get(ctx, "youtube-clone-missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, value)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, "youtube-clone-liked-videos", `["v1","v3"]`))

		value, found, err := backend.Get(ctx, "youtube-clone-liked-videos")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `["v1","v3"]`, value)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, "youtube-clone-user-data", `{"username":"a"}`))
		require.NoError(t, backend.Set(ctx, "youtube-clone-user-data", `{"username":"b"}`))

		value, _, err := backend.Get(ctx, "youtube-clone-user-data")
		require.NoError(t, err)
		assert.Equal(t, `{"username":"b"}`, value)
	})

	t.Run("keys with odd characters round trip", func(t *testing.T) {
		key := "youtube-clone-comments-v1:initialized"
		require.NoError(t, backend.Set(ctx, key, "1"))

		value, found, err := backend.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "1", value)
	})

	t.Run("keys filters by prefix and sorts", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, "other-app-key", "x"))

		keys, err := backend.Keys(ctx, "youtube-clone-")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"youtube-clone-comments-v1:initialized",
			"youtube-clone-liked-videos",
			"youtube-clone-user-data",
		}, keys)
	})

	t.Run("remove deletes and tolerates absent keys", func(t *testing.T) {
		require.NoError(t, backend.Remove(ctx, "youtube-clone-liked-videos"))
		require.NoError(t, backend.Remove(ctx, "youtube-clone-liked-videos"))

		_, found, err := backend.Get(ctx, "youtube-clone-liked-videos")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		err := backend.Set(ctx, "", "x")
		require.Error(t, err)
		assert.True(t, IsInvalidKey(err))
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, backend.Ping(ctx))
	})

	t.Run("closed backend refuses work", func(t *testing.T) {
		require.NoError(t, backend.Close())

		_, _, err := backend.Get(ctx, "youtube-clone-user-data")
		assert.True(t, IsClosed(err))
		assert.True(t, IsClosed(backend.Set(ctx, "k", "v")))
		assert.True(t, IsClosed(backend.Ping(ctx)))
	})
}
