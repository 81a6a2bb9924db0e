package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/churn/internal/artifact"
	"github.com/kailas-cloud/churn/internal/config"
	logpkg "github.com/kailas-cloud/churn/internal/logger"
	"github.com/kailas-cloud/churn/internal/metrics"
	chiTransport "github.com/kailas-cloud/churn/internal/transport/chi"
	healthuc "github.com/kailas-cloud/churn/internal/usecase/health"
	predictuc "github.com/kailas-cloud/churn/internal/usecase/predict"
	"github.com/kailas-cloud/churn/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, logpkg.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File.Path,
		MaxSizeMB:  cfg.Logging.File.MaxSizeMB,
		MaxBackups: cfg.Logging.File.MaxBackups,
		MaxAgeDays: cfg.Logging.File.MaxAgeDays,
	})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting churn prediction server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("addr", cfg.HTTP.Addr()),
		zap.String("model_path", cfg.Model.Path),
	)

	// The artifact is loaded once and shared read-only; no request is served without it.
	model, err := artifact.Load(cfg.Model.Path)
	if err != nil {
		logger.Fatal("Failed to load model artifact", zap.Error(err))
	}
	logger.Info("Model artifact loaded",
		zap.String("name", model.Name()),
		zap.String("sha256", model.Checksum()),
		zap.Int("features", model.FeatureCount()),
	)

	metrics.RegisterPredictionMetrics()
	metrics.ModelInfo.WithLabelValues(model.Name(), model.Checksum()).Set(1)

	predictSvc := predictuc.New(model.Encoder(), model.Classifier())
	healthSvc := healthuc.New(model)

	server := chiTransport.NewServer(predictSvc, healthSvc, logger).
		WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      chiTransport.NewRouter(server, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
