package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ad-tracker/youtube-clone-state/internal/models"
)

func ids(videos []models.Video) []string {
	out := make([]string, 0, len(videos))
	for _, v := range videos {
		out = append(out, v.ID)
	}
	return out
}

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Len(t, c.Videos(), 36)
	assert.Len(t, c.Shorts(), 5)
	assert.Len(t, c.SeedComments(), 4)

	for _, s := range c.Shorts() {
		assert.True(t, s.IsShort, s.ID)
	}
	for _, v := range c.Videos() {
		assert.False(t, v.IsShort, v.ID)
		assert.NotEmpty(t, v.Title, v.ID)
		assert.NotEmpty(t, v.ChannelName, v.ID)
	}
}

func TestCatalog_Lookups(t *testing.T) {
	c := MustLoad()

	v, ok := c.Video("v1")
	require.True(t, ok)
	assert.Equal(t, "JavaScript Mastery", v.ChannelName)
	assert.Equal(t, "4F2m91eKmJk", v.VideoID)

	_, ok = c.Video("p1")
	assert.False(t, ok, "shorts are not long-form videos")

	s, ok := c.Short("p1")
	require.True(t, ok)
	assert.Equal(t, "Fireship", s.ChannelName)

	_, ok = c.Short("v1")
	assert.False(t, ok)

	_, ok = c.Lookup("p4")
	assert.True(t, ok)
	_, ok = c.Lookup("nope")
	assert.False(t, ok)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := MustLoad()

	videos := c.Videos()
	videos[0].Title = "changed"
	comments := c.SeedComments()
	comments[0].Likes = -1

	v, _ := c.Video(videos[0].ID)
	assert.NotEqual(t, "changed", v.Title)
	assert.Equal(t, 342, c.SeedComments()[0].Likes)
}

func TestCatalog_Related(t *testing.T) {
	c := MustLoad()

	related := c.Related("v2", 3)
	assert.Equal(t, []string{"v1", "v3", "v4"}, ids(related))
	assert.Len(t, c.Related("v2", 0), 35)

	shorts := c.RelatedShorts("p1", 10)
	assert.Len(t, shorts, 4)
	assert.NotContains(t, ids(shorts), "p1")
	assert.ElementsMatch(t, []string{"p2", "p3", "p4", "p5"}, ids(shorts))

	assert.Len(t, c.RelatedShorts("p1", 2), 2)
}

func TestCatalog_ByChannel(t *testing.T) {
	c := MustLoad()

	assert.Equal(t, []string{"p5", "p1", "v5", "v6"}, ids(c.ByChannel("Fireship")))
	assert.Empty(t, c.ByChannel("Nobody"))
}

func TestCatalog_ByCategory(t *testing.T) {
	c := MustLoad()

	assert.Equal(t, []string{"v13"}, ids(c.ByCategory("SPORTS")))
	assert.Empty(t, c.ByCategory("cooking"))
}

func TestCatalog_RepresentativeImage(t *testing.T) {
	c := MustLoad()

	tests := []struct {
		name    string
		channel string
		want    func() string
		wantOK  bool
	}{
		{
			name:    "from first video",
			channel: "Kevin Powell",
			want:    func() string { v, _ := c.Video("v4"); return v.ChannelImageURL },
			wantOK:  true,
		},
		{
			name:    "falls back to shorts",
			channel: "ThePrimeagen",
			want:    func() string { v, _ := c.Short("p4"); return v.ChannelImageURL },
			wantOK:  true,
		},
		{
			name:    "unknown channel",
			channel: "Nobody",
			want:    func() string { return "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.RepresentativeImage(tt.channel)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestCatalog_Search(t *testing.T) {
	c := MustLoad()

	assert.Equal(t, []string{"v1", "v2", "v5", "v6", "lv2", "lv10", "lv16", "lv23"}, ids(c.Search("  REACT ")))
	assert.Equal(t, []string{"v13"}, ids(c.Search("espn")))
	assert.Empty(t, c.Search("zzzz-no-match"))
	assert.Len(t, c.Search(""), 36)
}

func TestCatalog_WatchHistory(t *testing.T) {
	c := MustLoad()
	assert.Equal(t, []string{"v1", "v2", "v3", "v4"}, ids(c.WatchHistory()))
}

func TestCatalog_Channels(t *testing.T) {
	c := MustLoad()
	names := c.Channels()

	assert.Equal(t, "JavaScript Mastery", names[0])
	assert.Contains(t, names, "ThePrimeagen")

	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate %s", n)
		seen[n] = true
	}
}

func TestNew(t *testing.T) {
	c := New(
		[]models.Video{{ID: "a", ChannelName: "A", Timestamp: "1 day ago"}},
		[]models.Video{{ID: "s", ChannelName: "A", Timestamp: "Just now"}},
		nil,
	)

	s, ok := c.Short("s")
	require.True(t, ok)
	assert.True(t, s.IsShort)
	assert.Equal(t, []string{"s", "a"}, ids(c.ByChannel("A")))
}
