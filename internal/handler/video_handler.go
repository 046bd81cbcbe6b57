package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ad-tracker/youtube-clone-state/internal/models"
	"github.com/ad-tracker/youtube-clone-state/internal/store"
)

const (
	relatedVideos = 8
	relatedShorts = 10
)

// VideoHandler serves the read-only catalog joined with the user's state.
type VideoHandler struct {
	state *store.State
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(state *store.State) *VideoHandler {
	return &VideoHandler{state: state}
}

// VideoPage is the body of GET /videos/:id.
type VideoPage struct {
	Video   models.VideoView   `json:"video"`
	Related []models.VideoView `json:"related"`
}

// ChannelPage is the body of GET /channels/:name.
type ChannelPage struct {
	Channel      models.ChannelMeta `json:"channel"`
	IsSubscribed bool               `json:"isSubscribed"`
	Videos       []models.VideoView `json:"videos"`
}

// List returns the home feed. The category and q query parameters filter it.
func (h *VideoHandler) List(c *gin.Context) {
	var videos []models.Video
	switch {
	case c.Query("q") != "":
		videos = h.state.Catalog.Search(c.Query("q"))
	case c.Query("category") != "":
		videos = h.state.Catalog.ByCategory(c.Query("category"))
	default:
		videos = h.state.Catalog.Videos()
	}
	h.respondList(c, videos)
}

// Search returns the long-form videos matching the q query parameter.
func (h *VideoHandler) Search(c *gin.Context) {
	h.respondList(c, h.state.Catalog.Search(c.Query("q")))
}

// Get returns one video with related videos.
func (h *VideoHandler) Get(c *gin.Context) {
	id := c.Param("id")
	video, ok := h.state.Catalog.Video(id)
	related := h.state.Catalog.Related(id, relatedVideos)
	if !ok {
		video, ok = h.state.Uploads.Get(c.Request.Context(), id)
	}
	if !ok {
		respondError(c, http.StatusNotFound, "Video not found: "+id)
		return
	}
	h.respondPage(c, video, related)
}

// Shorts returns every short.
func (h *VideoHandler) Shorts(c *gin.Context) {
	h.respondList(c, h.state.Catalog.Shorts())
}

// Short returns one short with other shorts in random order.
func (h *VideoHandler) Short(c *gin.Context) {
	id := c.Param("id")
	short, ok := h.state.Catalog.Short(id)
	if !ok {
		respondError(c, http.StatusNotFound, "Short not found: "+id)
		return
	}
	h.respondPage(c, short, h.state.Catalog.RelatedShorts(id, relatedShorts))
}

// History returns the simulated watch history.
func (h *VideoHandler) History(c *gin.Context) {
	h.respondList(c, h.state.Catalog.WatchHistory())
}

// Channels lists every channel in the catalog.
func (h *VideoHandler) Channels(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.Catalog.Channels())
}

// Channel returns a channel page, deriving its metadata on first visit.
func (h *VideoHandler) Channel(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("name")
	meta, ok := h.state.Channels.Ensure(ctx, name)
	if !ok {
		respondError(c, http.StatusNotFound, "Channel not found: "+name)
		return
	}
	c.JSON(http.StatusOK, ChannelPage{
		Channel:      meta,
		IsSubscribed: h.state.Subscriptions.IsSubscribed(ctx, name),
		Videos:       h.state.Annotate(ctx, h.state.Catalog.ByChannel(name)),
	})
}

// PutChannel replaces a channel's stored metadata.
func (h *VideoHandler) PutChannel(c *gin.Context) {
	var meta models.ChannelMeta
	if err := c.ShouldBindJSON(&meta); err != nil {
		badRequest(c, err)
		return
	}
	meta.Name = c.Param("name")
	respondResult(c, h.state.Channels.Put(c.Request.Context(), meta))
}

func (h *VideoHandler) respondList(c *gin.Context, videos []models.Video) {
	c.JSON(http.StatusOK, h.state.Annotate(c.Request.Context(), videos))
}

func (h *VideoHandler) respondPage(c *gin.Context, video models.Video, related []models.Video) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, VideoPage{
		Video:   h.state.Annotate(ctx, []models.Video{video})[0],
		Related: h.state.Annotate(ctx, related),
	})
}
