package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ad-tracker/youtube-clone-state/internal/config"
	"github.com/ad-tracker/youtube-clone-state/internal/handler"
	"github.com/ad-tracker/youtube-clone-state/internal/kv"
	"github.com/ad-tracker/youtube-clone-state/internal/store"
	"github.com/ad-tracker/youtube-clone-state/internal/toast"
	"github.com/ad-tracker/youtube-clone-state/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	rotation := logger.Rotation{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	}
	if err := logger.InitWithRotation(cfg.Logging.Level, cfg.Logging.File, rotation); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg); err != nil {
		logger.Log.Error("Server exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Log.Warn("Failed to close storage backend", zap.Error(err))
		}
	}()
	logger.Log.Info("Storage backend ready", zap.String("driver", cfg.Storage.Driver))

	recorder := toast.NewRecorder(cfg.Toasts.HistorySize)
	dispatcher := toast.NewDispatcher(toast.LogSink{}, recorder)

	var hub *toast.Hub
	if cfg.Toasts.WebSocket {
		hub = toast.NewHub(0)
		dispatcher.Attach(hub)
		defer hub.Close()
	}

	routerDeps := handler.RouterDeps{
		Backend:  backend,
		Recorder: recorder,
	}
	if hub != nil {
		routerDeps.Toasts = hub
	}

	// RabbitMQ forwarding is optional; the UI keeps working without it.
	if cfg.Toasts.RabbitMQ.Enabled {
		publisher, err := toast.NewPublisher(ctx, cfg.Toasts.RabbitMQ)
		if err != nil {
			logger.Log.Warn("Failed to connect to RabbitMQ, toasts will not be forwarded", zap.Error(err))
		} else {
			dispatcher.Attach(publisher)
			go publisher.Run(ctx)
			defer func() {
				if err := publisher.Close(); err != nil {
					logger.Log.Warn("Failed to close RabbitMQ publisher", zap.Error(err))
				}
			}()
			routerDeps.Publisher = publisher
			logger.Log.Info("Toasts forwarded to RabbitMQ",
				zap.String("exchange", cfg.Toasts.RabbitMQ.Exchange),
			)
		}
	}

	state := store.NewState(store.Deps{
		Backend:  backend,
		Notifier: dispatcher,
	})
	state.Initialize(ctx)
	routerDeps.State = state

	gin.SetMode(cfg.Server.Mode)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler.NewRouter(routerDeps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Log.Error("Failed to close server", zap.Error(closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		logger.Log.Info("Server stopped gracefully")
		return nil
	}
}
