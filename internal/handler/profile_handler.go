package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ad-tracker/youtube-clone-state/internal/store"
)

// ProfileHandler exposes the local user's profile.
type ProfileHandler struct {
	profile *store.Profile
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profile *store.Profile) *ProfileHandler {
	return &ProfileHandler{profile: profile}
}

// Get returns the profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.profile.Profile(c.Request.Context()))
}

// Update applies a partial profile update and returns the result.
func (h *ProfileHandler) Update(c *gin.Context) {
	var patch store.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	ok := h.profile.Update(ctx, patch)
	c.JSON(http.StatusOK, gin.H{"success": ok, "profile": h.profile.Profile(ctx)})
}

// UpdateSettings applies a partial settings update.
func (h *ProfileHandler) UpdateSettings(c *gin.Context) {
	var patch store.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	ok := h.profile.UpdateSettings(ctx, patch)
	c.JSON(http.StatusOK, gin.H{"success": ok, "settings": h.profile.Profile(ctx).Settings})
}

// BannerColor suggests a banner colour without saving it.
func (h *ProfileHandler) BannerColor(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"color": h.profile.GenerateBannerColor()})
}
