package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ad-tracker/youtube-clone-state/internal/store"
)

// LibraryHandler exposes the subscriptions, liked videos and Watch Later list.
type LibraryHandler struct {
	state *store.State
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(state *store.State) *LibraryHandler {
	return &LibraryHandler{state: state}
}

// SubscriptionRequest toggles a subscription.
type SubscriptionRequest struct {
	Subscribed *bool `json:"subscribed" binding:"required"`
}

// MembershipRequest adds a video to or removes it from a list.
type MembershipRequest struct {
	Member *bool `json:"member" binding:"required"`
}

// Subscriptions lists the subscribed channels.
func (h *LibraryHandler) Subscriptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.Subscriptions.All(c.Request.Context()))
}

// Subscribe subscribes to or unsubscribes from the channel in the path.
func (h *LibraryHandler) Subscribe(c *gin.Context) {
	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respondResult(c, h.state.Subscriptions.Toggle(c.Request.Context(), c.Param("name"), *req.Subscribed))
}

// Liked lists the liked videos.
func (h *LibraryHandler) Liked(c *gin.Context) {
	h.list(c, h.state.Likes)
}

// SetLiked likes or unlikes the video in the path.
func (h *LibraryHandler) SetLiked(c *gin.Context) {
	h.set(c, h.state.Likes)
}

// ClearLiked removes every liked video.
func (h *LibraryHandler) ClearLiked(c *gin.Context) {
	respondResult(c, h.state.Likes.Clear(c.Request.Context()))
}

// WatchLater lists the videos saved for later.
func (h *LibraryHandler) WatchLater(c *gin.Context) {
	h.list(c, h.state.WatchLater)
}

// SetWatchLater saves or unsaves the video in the path.
func (h *LibraryHandler) SetWatchLater(c *gin.Context) {
	h.set(c, h.state.WatchLater)
}

// ClearWatchLater empties the Watch Later list.
func (h *LibraryHandler) ClearWatchLater(c *gin.Context) {
	respondResult(c, h.state.WatchLater.Clear(c.Request.Context()))
}

func (h *LibraryHandler) list(c *gin.Context, set *store.VideoSet) {
	ctx := c.Request.Context()
	ids := set.IDs(ctx)
	c.JSON(http.StatusOK, gin.H{
		"ids":    ids,
		"videos": h.state.Annotate(ctx, h.state.Resolve(ctx, ids)),
	})
}

func (h *LibraryHandler) set(c *gin.Context, set *store.VideoSet) {
	var req MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respondResult(c, set.Set(c.Request.Context(), c.Param("id"), *req.Member))
}
