package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ad-tracker/youtube-clone-state/internal/store"
	"github.com/ad-tracker/youtube-clone-state/pkg/logger"
)

// ErrorResponse is the body of every error reply.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

// ResultResponse reports the outcome of a mutation that has no other result.
type ResultResponse struct {
	Success bool `json:"success"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}

func badRequest(c *gin.Context, err error) {
	logger.Log.Warn("Invalid request payload",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)
	respondError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
}

// respondCreated answers an add operation. A record that was kept in memory
// but not persisted is reported as 202 with persisted=false.
func respondCreated(c *gin.Context, err error, body gin.H) {
	switch {
	case err == nil:
		body["persisted"] = true
		c.JSON(http.StatusCreated, body)
	case errors.Is(err, store.ErrNotPersisted):
		body["persisted"] = false
		c.JSON(http.StatusAccepted, body)
	case errors.Is(err, store.ErrInvalidNotification),
		errors.Is(err, store.ErrInvalidComment),
		errors.Is(err, store.ErrInvalidUpload):
		logger.Log.Warn("Validation error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		logger.Log.Error("Unexpected error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func respondResult(c *gin.Context, ok bool) {
	c.JSON(http.StatusOK, ResultResponse{Success: ok})
}
