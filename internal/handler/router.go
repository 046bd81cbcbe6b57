package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ad-tracker/youtube-clone-state/internal/kv"
	"github.com/ad-tracker/youtube-clone-state/internal/middleware"
	"github.com/ad-tracker/youtube-clone-state/internal/store"
	"github.com/ad-tracker/youtube-clone-state/internal/toast"
)

// RouterDeps are the collaborators the HTTP surface needs. Toasts and
// Publisher are optional.
type RouterDeps struct {
	State     *store.State
	Backend   kv.Backend
	Recorder  *toast.Recorder
	Toasts    http.Handler
	Publisher HealthChecker
}

// NewRouter builds the gin engine serving the state API.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestLogger())

	health := NewHealthHandler(deps.Backend, deps.Publisher)
	r.GET("/health/live", health.LivenessProbe)
	r.GET("/health/ready", health.ReadinessProbe)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if deps.Toasts != nil {
		r.GET("/ws/toasts", gin.WrapH(deps.Toasts))
	}

	recorder := deps.Recorder
	if recorder == nil {
		recorder = toast.NewRecorder(1)
	}

	notifications := NewNotificationHandler(deps.State.Notifications)
	library := NewLibraryHandler(deps.State)
	profile := NewProfileHandler(deps.State.Profile)
	videos := NewVideoHandler(deps.State)
	comments := NewCommentHandler(deps.State.Comments)
	uploads := NewUploadHandler(deps.State.Uploads)
	state := NewStateHandler(deps.State, deps.Backend, recorder)

	api := r.Group("/api/v1")

	api.GET("/notifications", notifications.List)
	api.POST("/notifications", notifications.Create)
	api.DELETE("/notifications", notifications.Clear)
	api.POST("/notifications/generate", notifications.Generate)
	api.POST("/notifications/read", notifications.MarkAllRead)
	api.POST("/notifications/:id/read", notifications.MarkRead)
	api.DELETE("/notifications/:id", notifications.Delete)

	api.GET("/subscriptions", library.Subscriptions)
	api.PUT("/subscriptions/:name", library.Subscribe)
	api.GET("/likes", library.Liked)
	api.PUT("/likes/:id", library.SetLiked)
	api.DELETE("/likes", library.ClearLiked)
	api.GET("/watch-later", library.WatchLater)
	api.PUT("/watch-later/:id", library.SetWatchLater)
	api.DELETE("/watch-later", library.ClearWatchLater)

	api.GET("/profile", profile.Get)
	api.PATCH("/profile", profile.Update)
	api.PATCH("/profile/settings", profile.UpdateSettings)
	api.GET("/profile/banner-color", profile.BannerColor)

	api.GET("/videos", videos.List)
	api.GET("/videos/:id", videos.Get)
	api.GET("/videos/:id/comments", comments.List)
	api.POST("/videos/:id/comments", comments.Create)
	api.POST("/videos/:id/comments/:commentId/like", comments.Like)
	api.DELETE("/videos/:id/comments/:commentId", comments.Delete)
	api.GET("/shorts", videos.Shorts)
	api.GET("/shorts/:id", videos.Short)
	api.GET("/search", videos.Search)
	api.GET("/history", videos.History)
	api.GET("/channels", videos.Channels)
	api.GET("/channels/:name", videos.Channel)
	api.PUT("/channels/:name", videos.PutChannel)

	api.GET("/uploads", uploads.List)
	api.POST("/uploads", uploads.Create)
	api.DELETE("/uploads/:id", uploads.Delete)

	api.GET("/toasts", state.Toasts)
	api.GET("/state/export", state.Export)
	api.POST("/state/import", state.Import)
	api.POST("/state/reset/:store", state.Reset)

	return r
}
