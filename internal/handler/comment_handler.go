package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ad-tracker/youtube-clone-state/internal/models"
	"github.com/ad-tracker/youtube-clone-state/internal/store"
)

// CommentHandler exposes the comment threads under videos.
type CommentHandler struct {
	comments *store.Comments
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(comments *store.Comments) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// List returns the comments of the video in the path.
func (h *CommentHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.comments.List(c.Request.Context(), c.Param("id")))
}

// Create posts a comment under the video in the path.
func (h *CommentHandler) Create(c *gin.Context) {
	var draft models.CommentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.comments.Add(c.Request.Context(), c.Param("id"), draft)
	respondCreated(c, err, gin.H{"comment": comment})
}

// Like adds a like to a comment.
func (h *CommentHandler) Like(c *gin.Context) {
	respondResult(c, h.comments.Like(c.Request.Context(), c.Param("id"), c.Param("commentId")))
}

// Delete removes a comment.
func (h *CommentHandler) Delete(c *gin.Context) {
	respondResult(c, h.comments.Remove(c.Request.Context(), c.Param("id"), c.Param("commentId")))
}
