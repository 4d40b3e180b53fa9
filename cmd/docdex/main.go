package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/docdex/docdex/internal/config"
	"github.com/docdex/docdex/internal/embedding"
	logpkg "github.com/docdex/docdex/internal/logger"
	"github.com/docdex/docdex/internal/metrics"
	"github.com/docdex/docdex/internal/store"
	chiTransport "github.com/docdex/docdex/internal/transport/chi"
	indexuc "github.com/docdex/docdex/internal/usecase/index"
	"github.com/docdex/docdex/internal/version"
)

func main() {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("data_path", cfg.Index.DataPath),
		zap.Int("dimensions", cfg.Index.Dimensions),
	)

	// Register index metrics explicitly (no init())
	metrics.RegisterIndexMetrics()

	// Build the embedder chain
	hashbow, err := embedding.NewHashBOW(cfg.Index.Dimensions)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	embedder := embedding.NewInstrumented(hashbow, logger)

	// Load the snapshot; a missing or corrupt file degrades to an empty
	// store rather than failing startup.
	st := store.Load(cfg.Index.DataPath, logger)
	metrics.IndexDocuments.Set(float64(st.Len()))
	if cfg.Index.DataPath == "" {
		logger.Warn("No data path configured, index is memory-only")
	}

	indexSvc := indexuc.New(st, embedder, hashbow.Dimensions(), logger).
		WithDefaultTopK(cfg.Index.DefaultTopK)

	server := chiTransport.NewServer(indexSvc, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.Recoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.RequestLogger(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
