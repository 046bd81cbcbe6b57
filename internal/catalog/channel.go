package catalog

import (
	"hash/fnv"
	"net/url"

	"github.com/ad-tracker/youtube-clone-state/internal/format"
	"github.com/ad-tracker/youtube-clone-state/internal/models"
)

var bannerColors = []string{"#4285F4", "#EA4335", "#FBBC05", "#34A853", "#FF9800", "#9C27B0"}

// Channels with a hand-picked banner image.
var knownBanners = map[string]string{
	"JavaScript Mastery": "https://i.ytimg.com/vi/4F2m91eKmJk/maxresdefault.jpg",
	"freeCodeCamp.org":   "https://i.ytimg.com/vi/bMknfKXIFA8/maxresdefault.jpg",
	"Fireship":           "https://i.ytimg.com/vi/TNhaISOUy6Q/maxresdefault.jpg",
	"Kevin Powell":       "https://i.ytimg.com/vi/3elGSZSWTbM/maxresdefault.jpg",
	"Marques Brownlee":   "https://i.ytimg.com/vi/QgcR5d19cGo/maxresdefault.jpg",
}

// DeriveChannel builds display metadata for a channel from its catalog
// videos. The result depends only on the name and the catalog, so it is
// stable across calls. Unknown channels yield false.
func (c *Catalog) DeriveChannel(name string) (models.ChannelMeta, bool) {
	videos := c.ByChannel(name)
	if len(videos) == 0 {
		return models.ChannelMeta{}, false
	}

	image, _ := c.RepresentativeImage(name)
	color := bannerColors[len(name)%len(bannerColors)]

	banner, ok := knownBanners[name]
	if !ok {
		from := bannerColors[len(name)%len(bannerColors)][1:]
		to := bannerColors[(len(name)+2)%len(bannerColors)][1:]
		banner = "https://via.placeholder.com/1200x200/" + from + "/" + to + "?text=" + url.QueryEscape(name)
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	millions := h.Sum32()%10 + 1

	return models.ChannelMeta{
		Name:        name,
		Image:       image,
		Banner:      banner,
		Subscribers: formatMillions(millions),
		VideoCount:  len(videos),
		Color:       color,
	}, true
}

func formatMillions(n uint32) string {
	return format.Subscribers(int64(n) * 1_000_000)
}
