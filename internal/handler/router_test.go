package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ad-tracker/youtube-clone-state/internal/kv"
	"github.com/ad-tracker/youtube-clone-state/internal/models"
	"github.com/ad-tracker/youtube-clone-state/internal/store"
	"github.com/ad-tracker/youtube-clone-state/internal/toast"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	state    *store.State
	backend  kv.Backend
	recorder *toast.Recorder
}

func newTestServer(t *testing.T, backend kv.Backend) *testServer {
	t.Helper()
	if backend == nil {
		backend = kv.NewMemory(0)
	}
	recorder := toast.NewRecorder(50)
	state := store.NewState(store.Deps{
		Backend:  backend,
		Notifier: toast.NewDispatcher(recorder),
	})
	return &testServer{
		router: NewRouter(RouterDeps{
			State:    state,
			Backend:  backend,
			Recorder: recorder,
		}),
		state:    state,
		backend:  backend,
		recorder: recorder,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) lastToast(t *testing.T) toast.Toast {
	t.Helper()
	last, ok := s.recorder.Last()
	require.True(t, ok, "no toast raised")
	return last
}

func TestNotificationRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	feed := decode[NotificationFeed](t, srv.do(t, http.MethodGet, "/api/v1/notifications", nil))
	assert.Len(t, feed.Notifications, 16)
	assert.Equal(t, 13, feed.UnreadCount)

	w := srv.do(t, http.MethodPost, "/api/v1/notifications", models.NotificationDraft{
		Title:       "New video",
		Message:     "Watch it now",
		Type:        models.NotificationUpload,
		ChannelName: "Fireship",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]interface{}](t, w)
	assert.Equal(t, true, created["persisted"])
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "New notification received", srv.lastToast(t).Title)

	feed = decode[NotificationFeed](t, srv.do(t, http.MethodGet, "/api/v1/notifications", nil))
	require.Len(t, feed.Notifications, 17)
	assert.Equal(t, id, feed.Notifications[0].ID)
	assert.Equal(t, 14, feed.UnreadCount)

	w = srv.do(t, http.MethodPost, "/api/v1/notifications/"+id+"/read", nil)
	assert.True(t, decode[ResultResponse](t, w).Success)
	w = srv.do(t, http.MethodPost, "/api/v1/notifications/missing/read", nil)
	assert.False(t, decode[ResultResponse](t, w).Success)

	w = srv.do(t, http.MethodPost, "/api/v1/notifications/read", nil)
	assert.True(t, decode[ResultResponse](t, w).Success)
	feed = decode[NotificationFeed](t, srv.do(t, http.MethodGet, "/api/v1/notifications", nil))
	assert.Zero(t, feed.UnreadCount)

	w = srv.do(t, http.MethodDelete, "/api/v1/notifications/"+id, nil)
	assert.True(t, decode[ResultResponse](t, w).Success)
	assert.Equal(t, "Notification removed", srv.lastToast(t).Title)

	w = srv.do(t, http.MethodDelete, "/api/v1/notifications", nil)
	assert.True(t, decode[ResultResponse](t, w).Success)
	feed = decode[NotificationFeed](t, srv.do(t, http.MethodGet, "/api/v1/notifications", nil))
	assert.Empty(t, feed.Notifications)
}

func TestNotificationRoutes_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{name: "malformed json", body: "{"},
		{name: "missing title", body: models.NotificationDraft{Message: "m", Type: models.NotificationUpload, ChannelName: "c"}},
		{name: "unknown type", body: models.NotificationDraft{Title: "t", Message: "m", Type: "spam", ChannelName: "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, nil)

			w := srv.do(t, http.MethodPost, "/api/v1/notifications", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode[ErrorResponse](t, w)
			assert.Equal(t, "/api/v1/notifications", resp.Path)
			feed := decode[NotificationFeed](t, srv.do(t, http.MethodGet, "/api/v1/notifications", nil))
			assert.Len(t, feed.Notifications, 16)
		})
	}
}

func TestNotificationRoutes_Generate(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodPost, "/api/v1/notifications/generate?count=3", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.EqualValues(t, 3, decode[map[string]interface{}](t, w)["added"])

	w = srv.do(t, http.MethodPost, "/api/v1/notifications/generate", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	feed := decode[NotificationFeed](t, srv.do(t, http.MethodGet, "/api/v1/notifications", nil))
	assert.Len(t, feed.Notifications, 20)

	w = srv.do(t, http.MethodPost, "/api/v1/notifications/generate?count=lots", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationRoutes_NotPersisted(t *testing.T) {
	srv := newTestServer(t, kv.NewMemory(16))

	w := srv.do(t, http.MethodPost, "/api/v1/notifications", models.NotificationDraft{
		Title:       "Kept in memory",
		Message:     "m",
		Type:        models.NotificationUpdate,
		ChannelName: "Fireship",
	})

	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, false, decode[map[string]interface{}](t, w)["persisted"])
	last := srv.lastToast(t)
	assert.Equal(t, toast.LevelError, last.Level)
	assert.Contains(t, last.Description, "Storage is full")

	feed := decode[NotificationFeed](t, srv.do(t, http.MethodGet, "/api/v1/notifications", nil))
	assert.Equal(t, "Kept in memory", feed.Notifications[0].Title)
}

func TestLibraryRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodPut, "/api/v1/likes/v1", MembershipRequest{Member: boolPtr(true)})
	assert.True(t, decode[ResultResponse](t, w).Success)
	assert.Equal(t, "Added to liked videos", srv.lastToast(t).Title)

	liked := decode[struct {
		IDs    []string           `json:"ids"`
		Videos []models.VideoView `json:"videos"`
	}](t, srv.do(t, http.MethodGet, "/api/v1/likes", nil))
	assert.Equal(t, []string{"v1"}, liked.IDs)
	require.Len(t, liked.Videos, 1)
	assert.True(t, liked.Videos[0].IsLiked)

	w = srv.do(t, http.MethodPut, "/api/v1/watch-later/v2", MembershipRequest{Member: boolPtr(true)})
	assert.True(t, decode[ResultResponse](t, w).Success)
	assert.Equal(t, "Saved to Watch Later", srv.lastToast(t).Title)

	w = srv.do(t, http.MethodPut, "/api/v1/likes/v1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "member is required")

	w = srv.do(t, http.MethodDelete, "/api/v1/watch-later", nil)
	assert.True(t, decode[ResultResponse](t, w).Success)
	assert.Empty(t, srv.state.WatchLater.IDs(t.Context()))
	assert.Equal(t, []string{"v1"}, srv.state.Likes.IDs(t.Context()))
}

func TestSubscriptionRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	channels := decode[[]models.Channel](t, srv.do(t, http.MethodGet, "/api/v1/subscriptions", nil))
	assert.Len(t, channels, 5)

	w := srv.do(t, http.MethodPut, "/api/v1/subscriptions/Web%20Dev%20Simplified", SubscriptionRequest{Subscribed: boolPtr(true)})
	assert.True(t, decode[ResultResponse](t, w).Success)
	assert.Equal(t, "Subscribed to Web Dev Simplified", srv.lastToast(t).Title)

	page := decode[ChannelPage](t, srv.do(t, http.MethodGet, "/api/v1/channels/Web%20Dev%20Simplified", nil))
	assert.True(t, page.IsSubscribed)
	assert.Equal(t, "Web Dev Simplified", page.Channel.Name)
	require.NotEmpty(t, page.Videos)
	for _, v := range page.Videos {
		assert.True(t, v.IsSubscribed)
	}
}

func TestProfileRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	profile := decode[models.UserProfile](t, srv.do(t, http.MethodGet, "/api/v1/profile", nil))
	assert.Equal(t, "Your Name", profile.DisplayName)

	w := srv.do(t, http.MethodPatch, "/api/v1/profile", map[string]string{"displayName": "Ada"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[struct {
		Success bool               `json:"success"`
		Profile models.UserProfile `json:"profile"`
	}](t, w)
	assert.True(t, updated.Success)
	assert.Equal(t, "Ada", updated.Profile.DisplayName)
	assert.Equal(t, profile.Email, updated.Profile.Email)

	w = srv.do(t, http.MethodPatch, "/api/v1/profile/settings", map[string]bool{"darkMode": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Settings updated successfully", srv.lastToast(t).Title)
	profile = decode[models.UserProfile](t, srv.do(t, http.MethodGet, "/api/v1/profile", nil))
	assert.True(t, profile.Settings.DarkMode)

	color := decode[map[string]string](t, srv.do(t, http.MethodGet, "/api/v1/profile/banner-color", nil))
	assert.Contains(t, store.BannerColors, color["color"])
}

func TestVideoRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	all := decode[[]models.VideoView](t, srv.do(t, http.MethodGet, "/api/v1/videos", nil))
	assert.Len(t, all, len(srv.state.Catalog.Videos()))

	page := decode[VideoPage](t, srv.do(t, http.MethodGet, "/api/v1/videos/v1", nil))
	assert.Equal(t, "v1", page.Video.ID)
	for _, v := range page.Related {
		assert.NotEqual(t, "v1", v.ID)
	}

	found := decode[[]models.VideoView](t, srv.do(t, http.MethodGet, "/api/v1/search?q=WEB+DEV", nil))
	require.NotEmpty(t, found)
	for _, v := range found {
		assert.Contains(t, strings.ToLower(v.Title+" "+v.ChannelName), "web dev")
	}

	short := decode[VideoPage](t, srv.do(t, http.MethodGet, "/api/v1/shorts/p1", nil))
	assert.True(t, short.Video.IsShort)

	tests := []struct {
		name string
		path string
	}{
		{name: "unknown video", path: "/api/v1/videos/nope"},
		{name: "unknown short", path: "/api/v1/shorts/nope"},
		{name: "unknown channel", path: "/api/v1/channels/Nobody"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, tt.path, decode[ErrorResponse](t, w).Path)
		})
	}
}

func TestCommentRoutes(t *testing.T) {
	srv := newTestServer(t, nil)
	seeded := len(srv.state.Catalog.SeedComments())

	w := srv.do(t, http.MethodPost, "/api/v1/videos/v1/comments", models.CommentDraft{Username: "ada", Content: "Great video"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	comment := decode[struct {
		Comment models.Comment `json:"comment"`
	}](t, w).Comment
	assert.Equal(t, "Comment submitted!", srv.lastToast(t).Title)

	list := decode[[]models.Comment](t, srv.do(t, http.MethodGet, "/api/v1/videos/v1/comments", nil))
	require.Len(t, list, seeded+1)
	assert.Equal(t, comment.ID, list[0].ID)

	w = srv.do(t, http.MethodPost, "/api/v1/videos/v1/comments/"+comment.ID+"/like", nil)
	assert.True(t, decode[ResultResponse](t, w).Success)

	w = srv.do(t, http.MethodDelete, "/api/v1/videos/v1/comments/"+comment.ID, nil)
	assert.True(t, decode[ResultResponse](t, w).Success)

	w = srv.do(t, http.MethodPost, "/api/v1/videos/v1/comments", models.CommentDraft{Username: "ada"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodPost, "/api/v1/uploads", models.UploadDraft{Title: "My first video"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	video := decode[struct {
		Video models.Video `json:"video"`
	}](t, w).Video
	assert.Equal(t, "Your Name", video.ChannelName)

	page := decode[VideoPage](t, srv.do(t, http.MethodGet, "/api/v1/videos/"+video.ID, nil))
	assert.Equal(t, "My first video", page.Video.Title)

	w = srv.do(t, http.MethodDelete, "/api/v1/uploads/"+video.ID, nil)
	assert.True(t, decode[ResultResponse](t, w).Success)
	assert.Empty(t, decode[[]models.Video](t, srv.do(t, http.MethodGet, "/api/v1/uploads", nil)))
}

func TestStateRoutes_ExportImport(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.do(t, http.MethodPut, "/api/v1/likes/v1", MembershipRequest{Member: boolPtr(true)})

	w := srv.do(t, http.MethodGet, "/api/v1/state/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/toml", w.Header().Get("Content-Type"))
	exported := w.Body.Bytes()
	assert.Contains(t, string(exported), store.KeyLikedVideos)

	srv.do(t, http.MethodDelete, "/api/v1/likes", nil)
	assert.Empty(t, srv.state.Likes.IDs(t.Context()))

	w = srv.do(t, http.MethodPost, "/api/v1/state/import?replace=true", exported)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"v1"}, srv.state.Likes.IDs(t.Context()))

	w = srv.do(t, http.MethodPost, "/api/v1/state/import", "version = 9\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStateRoutes_Reset(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.do(t, http.MethodDelete, "/api/v1/notifications", nil)

	w := srv.do(t, http.MethodPost, "/api/v1/state/reset/notifications", nil)
	assert.True(t, decode[ResultResponse](t, w).Success)
	feed := decode[NotificationFeed](t, srv.do(t, http.MethodGet, "/api/v1/notifications", nil))
	assert.Len(t, feed.Notifications, len(store.DefaultNotifications()))

	w = srv.do(t, http.MethodPost, "/api/v1/state/reset/everything", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	recent := decode[[]toast.Toast](t, srv.do(t, http.MethodGet, "/api/v1/toasts", nil))
	require.NotEmpty(t, recent)
	assert.Equal(t, "Notifications reset to default", recent[len(recent)-1].Title)
}

func TestRouter_Metrics(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func boolPtr(b bool) *bool { return &b }
