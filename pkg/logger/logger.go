// Package logger holds the process-wide zap logger used by every store,
// backend and handler.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the shared logger. It is a no-op logger until Init is called so
// packages can log from tests without setting anything up.
var Log = zap.NewNop()

// Rotation controls the size-based rotation of the log file.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultRotation keeps five 50MB files for at most a month.
var DefaultRotation = Rotation{MaxSizeMB: 50, MaxBackups: 5, MaxAgeDays: 30}

// Init builds the shared logger. Without a log file it writes human-readable
// development output to stderr; with one it writes JSON to both the rotated
// file and stdout.
func Init(level string, logFile string) error {
	return InitWithRotation(level, logFile, DefaultRotation)
}

// InitWithRotation is Init with explicit rotation settings for the log file.
func InitWithRotation(level string, logFile string, rotation Rotation) error {
	atomicLevel := zap.NewAtomicLevelAt(parseLevel(level))

	if logFile == "" {
		config := zap.NewDevelopmentConfig()
		config.Level = atomicLevel

		built, err := config.Build()
		if err != nil {
			return err
		}
		Log = built
		return nil
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	rotated := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    rotation.MaxSizeMB,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAgeDays,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(zapcore.AddSync(rotated), zapcore.AddSync(os.Stdout)),
		atomicLevel,
	)

	Log = zap.New(core, zap.AddCaller())
	return nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes any buffered log entries.
func Sync() error {
	if Log != nil {
		return Log.Sync()
	}
	return nil
}
