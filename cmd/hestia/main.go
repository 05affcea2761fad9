package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hestia-ml/hestia/internal/config"
	"github.com/hestia-ml/hestia/internal/model"
	"github.com/hestia-ml/hestia/internal/monitoring"
	"github.com/hestia-ml/hestia/internal/server"
	"github.com/hestia-ml/hestia/internal/store"
	"github.com/hestia-ml/hestia/pkg/logger"
	"github.com/hestia-ml/hestia/pkg/metrics"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	zapLogger, err := logger.New(logLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Load the production model bundle. A missing bundle is not fatal: the
	// server starts and answers 503 on model endpoints until /admin/reload.
	registry := model.NewRegistry(cfg.Model.Dir, zapLogger)
	if err := registry.Load(); err != nil {
		zapLogger.Warn("Production model not loaded; model endpoints will return 503",
			zap.String("dir", cfg.Model.Dir),
			zap.Error(err),
		)
	} else if bundle, ok := registry.Bundle(); ok {
		metrics.ModelLoaded.WithLabelValues(bundle.Meta.ModelVersion).Set(1)
	}

	// The monitor tracks the model's declared input schema; fall back to the
	// full known schema when no bundle is loaded yet.
	featureNames := model.AllFeatures
	if bundle, ok := registry.Bundle(); ok {
		featureNames = bundle.Schema.All
	}
	monitor := monitoring.NewMonitor(cfg.Monitoring.WindowCapacity, featureNames, zapLogger)

	var predStore server.PredictionStore
	if cfg.Store.Enabled {
		fileStore, err := store.NewFileStore(cfg.Store.Dir)
		if err != nil {
			zapLogger.Fatal("Failed to create prediction store", zap.Error(err))
		}
		predStore = fileStore
	}

	srv := server.NewServer(zapLogger, cfg, registry, monitor, predStore)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zapLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exited")
}
