package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveChannel(t *testing.T) {
	c := MustLoad()

	meta, ok := c.DeriveChannel("Fireship")
	require.True(t, ok)

	assert.Equal(t, "Fireship", meta.Name)
	assert.Equal(t, 4, meta.VideoCount)
	assert.Equal(t, "https://i.ytimg.com/vi/TNhaISOUy6Q/maxresdefault.jpg", meta.Banner)
	assert.Equal(t, bannerColors[len("Fireship")%len(bannerColors)], meta.Color)
	assert.True(t, strings.HasSuffix(meta.Subscribers, "M subscribers"), meta.Subscribers)

	again, _ := c.DeriveChannel("Fireship")
	assert.Equal(t, meta, again, "derivation is deterministic")

	espn, ok := c.DeriveChannel("ESPN")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(espn.Banner, "https://via.placeholder.com/1200x200/"))

	_, ok = c.DeriveChannel("Nobody")
	assert.False(t, ok)
}
