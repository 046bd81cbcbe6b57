package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ad-tracker/youtube-clone-state/internal/kv"
	"github.com/ad-tracker/youtube-clone-state/internal/snapshot"
	"github.com/ad-tracker/youtube-clone-state/internal/store"
	"github.com/ad-tracker/youtube-clone-state/internal/toast"
	"github.com/ad-tracker/youtube-clone-state/pkg/logger"
)

// StateHandler handles whole-state operations: snapshots, resets and the
// recent toast history.
type StateHandler struct {
	state    *store.State
	backend  kv.Backend
	recorder *toast.Recorder
	now      func() time.Time
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(state *store.State, backend kv.Backend, recorder *toast.Recorder) *StateHandler {
	return &StateHandler{
		state:    state,
		backend:  backend,
		recorder: recorder,
		now:      time.Now,
	}
}

// Export writes every state key as a TOML snapshot.
func (h *StateHandler) Export(c *gin.Context) {
	snap, err := snapshot.Export(c.Request.Context(), h.backend, h.now())
	if err != nil {
		logger.Log.Error("Failed to export state", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to export state")
		return
	}

	var buf bytes.Buffer
	if err := snap.Write(&buf); err != nil {
		logger.Log.Error("Failed to encode snapshot", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to export state")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="youtube-clone-state.toml"`)
	c.Data(http.StatusOK, "application/toml", buf.Bytes())
}

// Import restores a TOML snapshot from the request body. With replace=true
// existing state keys are removed first. Stores are reloaded afterwards.
func (h *StateHandler) Import(c *gin.Context) {
	replace, _ := strconv.ParseBool(c.Query("replace"))

	snap, err := snapshot.Read(c.Request.Body)
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	written, err := snapshot.Import(ctx, h.backend, snap, replace)
	if err != nil {
		logger.Log.Error("Failed to import snapshot",
			zap.Error(err),
			zap.Int("written", written),
		)
		status := http.StatusInternalServerError
		if kv.IsQuotaExceeded(err) {
			status = http.StatusInsufficientStorage
		}
		respondError(c, status, "Failed to import snapshot: "+err.Error())
		return
	}

	h.state.Reload(ctx)
	logger.Log.Info("Snapshot imported",
		zap.Int("entries", written),
		zap.Bool("replace", replace),
	)
	c.JSON(http.StatusOK, gin.H{"imported": written})
}

// Reset restores the named store to its defaults.
func (h *StateHandler) Reset(c *gin.Context) {
	name := c.Param("store")
	if !isResettable(name) {
		respondError(c, http.StatusNotFound, "Unknown store: "+name)
		return
	}
	respondResult(c, h.state.Reset(c.Request.Context(), name))
}

// Toasts returns the most recent toasts, oldest first.
func (h *StateHandler) Toasts(c *gin.Context) {
	c.JSON(http.StatusOK, h.recorder.Recent())
}

func isResettable(name string) bool {
	for _, known := range store.ResettableStores {
		if name == known {
			return true
		}
	}
	return false
}
