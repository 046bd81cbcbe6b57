package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ad-tracker/youtube-clone-state/internal/models"
	"github.com/ad-tracker/youtube-clone-state/internal/store"
)

// NotificationHandler exposes the notification feed.
type NotificationHandler struct {
	notifications *store.Notifications
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications *store.Notifications) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// NotificationFeed is the body of GET /notifications.
type NotificationFeed struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unreadCount"`
}

// List returns the feed newest first with its unread count.
func (h *NotificationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, NotificationFeed{
		Notifications: h.notifications.All(ctx),
		UnreadCount:   h.notifications.UnreadCount(ctx),
	})
}

// Create adds a notification from a draft.
func (h *NotificationHandler) Create(c *gin.Context) {
	var draft models.NotificationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.notifications.Add(c.Request.Context(), draft)
	respondCreated(c, err, gin.H{"id": id})
}

// Generate adds randomly generated notifications. The count query parameter
// defaults to one.
func (h *NotificationHandler) Generate(c *gin.Context) {
	count := 1
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		count = n
	}

	ctx := c.Request.Context()
	if count == 1 {
		id, err := h.notifications.GenerateRandom(ctx)
		respondCreated(c, err, gin.H{"id": id})
		return
	}

	added := h.notifications.GenerateTest(ctx, count)
	c.JSON(http.StatusCreated, gin.H{"added": added})
}

// MarkRead marks one notification as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	respondResult(c, h.notifications.MarkRead(c.Request.Context(), c.Param("id")))
}

// MarkAllRead marks every notification as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	respondResult(c, h.notifications.MarkAllRead(c.Request.Context()))
}

// Delete removes one notification.
func (h *NotificationHandler) Delete(c *gin.Context) {
	respondResult(c, h.notifications.Remove(c.Request.Context(), c.Param("id")))
}

// Clear removes every notification.
func (h *NotificationHandler) Clear(c *gin.Context) {
	respondResult(c, h.notifications.ClearAll(c.Request.Context()))
}
