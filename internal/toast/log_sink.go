package toast

import (
	"go.uber.org/zap"

	"github.com/ad-tracker/youtube-clone-state/pkg/logger"
)

// LogSink writes every toast to the shared logger.
type LogSink struct{}

// Deliver implements Sink.
func (LogSink) Deliver(t Toast) {
	fields := []zap.Field{
		zap.String("toastId", t.ID),
		zap.String("level", string(t.Level)),
		zap.String("description", t.Description),
	}
	if t.Level == LevelError {
		logger.Log.Warn(t.Title, fields...)
		return
	}
	logger.Log.Info(t.Title, fields...)
}
