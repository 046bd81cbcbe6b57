package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ad-tracker/youtube-clone-state/internal/models"
	"github.com/ad-tracker/youtube-clone-state/internal/store"
)

// UploadHandler exposes the user's uploaded videos.
type UploadHandler struct {
	uploads *store.Uploads
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploads *store.Uploads) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// List returns the uploads newest first.
func (h *UploadHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.uploads.All(c.Request.Context()))
}

// Create records a new upload.
func (h *UploadHandler) Create(c *gin.Context) {
	var draft models.UploadDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err)
		return
	}

	video, err := h.uploads.Add(c.Request.Context(), draft)
	respondCreated(c, err, gin.H{"video": video})
}

// Delete removes an upload.
func (h *UploadHandler) Delete(c *gin.Context) {
	respondResult(c, h.uploads.Remove(c.Request.Context(), c.Param("id")))
}
