// Package catalog holds the compiled-in videos, shorts and seed comments.
// Catalog records never change at run time; per-user flags such as
// "subscribed" or "liked" are joined in by Annotate when reading.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/ad-tracker/youtube-clone-state/internal/format"
	"github.com/ad-tracker/youtube-clone-state/internal/models"
)

// WatchHistorySize is how many videos WatchHistory returns.
const WatchHistorySize = 4

//go:embed seed/*.json
var seedFS embed.FS

// Catalog is an immutable set of videos and shorts.
type Catalog struct {
	videos   []models.Video
	shorts   []models.Video
	comments []models.Comment
	byID     map[string]models.Video
}

// Load parses the embedded seed data.
func Load() (*Catalog, error) {
	var c Catalog

	if err := readSeed("seed/videos.json", &c.videos); err != nil {
		return nil, err
	}
	if err := readSeed("seed/shorts.json", &c.shorts); err != nil {
		return nil, err
	}
	if err := readSeed("seed/comments.json", &c.comments); err != nil {
		return nil, err
	}

	for i := range c.shorts {
		c.shorts[i].IsShort = true
	}

	c.byID = make(map[string]models.Video, len(c.videos)+len(c.shorts))
	for _, v := range c.videos {
		c.byID[v.ID] = v
	}
	for _, v := range c.shorts {
		if _, dup := c.byID[v.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", v.ID)
		}
		c.byID[v.ID] = v
	}

	return &c, nil
}

// MustLoad is Load for program start-up; the seed is compiled in, so a
// failure is a build defect.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalog from explicit records. It is used by tests that need
// a small, known catalog.
func New(videos, shorts []models.Video, comments []models.Comment) *Catalog {
	c := &Catalog{
		videos:   append([]models.Video(nil), videos...),
		shorts:   append([]models.Video(nil), shorts...),
		comments: append([]models.Comment(nil), comments...),
		byID:     make(map[string]models.Video, len(videos)+len(shorts)),
	}
	for i := range c.shorts {
		c.shorts[i].IsShort = true
	}
	for _, v := range c.videos {
		c.byID[v.ID] = v
	}
	for _, v := range c.shorts {
		c.byID[v.ID] = v
	}
	return c
}

func readSeed(name string, dst interface{}) error {
	data, err := seedFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Videos returns every long-form video in feed order.
func (c *Catalog) Videos() []models.Video {
	return append([]models.Video(nil), c.videos...)
}

// Shorts returns every short in feed order.
func (c *Catalog) Shorts() []models.Video {
	return append([]models.Video(nil), c.shorts...)
}

// Video looks up a long-form video.
func (c *Catalog) Video(id string) (models.Video, bool) {
	v, ok := c.byID[id]
	if !ok || v.IsShort {
		return models.Video{}, false
	}
	return v, true
}

// Short looks up a short.
func (c *Catalog) Short(id string) (models.Video, bool) {
	v, ok := c.byID[id]
	if !ok || !v.IsShort {
		return models.Video{}, false
	}
	return v, true
}

// Lookup finds a video or a short by id.
func (c *Catalog) Lookup(id string) (models.Video, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// Related returns up to n long-form videos other than id, in feed order.
// n <= 0 means no limit.
func (c *Catalog) Related(id string, n int) []models.Video {
	return limit(exclude(c.videos, id), n)
}

// RelatedShorts returns up to n shorts other than id in random order.
func (c *Catalog) RelatedShorts(id string, n int) []models.Video {
	others := exclude(c.shorts, id)
	rand.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })
	return limit(others, n)
}

// ByChannel returns the channel's videos and shorts, newest first.
// Videos with an unreadable age keep their feed order after the dated ones.
func (c *Catalog) ByChannel(name string) []models.Video {
	var out []models.Video
	for _, v := range c.videos {
		if v.ChannelName == name {
			out = append(out, v)
		}
	}
	for _, v := range c.shorts {
		if v.ChannelName == name {
			out = append(out, v)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ai, iok := format.ParseAge(out[i].Timestamp)
		aj, jok := format.ParseAge(out[j].Timestamp)
		if iok != jok {
			return iok
		}
		return iok && ai < aj
	})
	return out
}

// ByCategory returns the long-form videos in category, ignoring case.
func (c *Catalog) ByCategory(category string) []models.Video {
	var out []models.Video
	for _, v := range c.videos {
		if strings.EqualFold(v.Category, category) {
			out = append(out, v)
		}
	}
	return out
}

// Channels lists every channel name appearing in the catalog, in first-seen order.
func (c *Catalog) Channels() []string {
	seen := make(map[string]bool)
	var names []string
	for _, list := range [][]models.Video{c.videos, c.shorts} {
		for _, v := range list {
			if !seen[v.ChannelName] {
				seen[v.ChannelName] = true
				names = append(names, v.ChannelName)
			}
		}
	}
	return names
}

// RepresentativeImage returns the channel image of the channel's first
// video, falling back to its first short.
func (c *Catalog) RepresentativeImage(name string) (string, bool) {
	for _, list := range [][]models.Video{c.videos, c.shorts} {
		for _, v := range list {
			if v.ChannelName == name {
				return v.ChannelImageURL, true
			}
		}
	}
	return "", false
}

// Search returns the long-form videos whose title or channel name contains
// query, ignoring case. An empty query matches everything.
func (c *Catalog) Search(query string) []models.Video {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Video
	for _, v := range c.videos {
		if strings.Contains(strings.ToLower(v.Title), q) || strings.Contains(strings.ToLower(v.ChannelName), q) {
			out = append(out, v)
		}
	}
	return out
}

// WatchHistory returns the simulated watch history: the first few videos.
func (c *Catalog) WatchHistory() []models.Video {
	return limit(c.Videos(), WatchHistorySize)
}

// SeedComments returns the comments every video starts with.
func (c *Catalog) SeedComments() []models.Comment {
	return append([]models.Comment(nil), c.comments...)
}

func exclude(videos []models.Video, id string) []models.Video {
	out := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		if v.ID != id {
			out = append(out, v)
		}
	}
	return out
}

func limit(videos []models.Video, n int) []models.Video {
	if n > 0 && len(videos) > n {
		return videos[:n]
	}
	return videos
}
