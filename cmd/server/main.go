package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"kimbo/internal/face"
	"kimbo/internal/ingest"
	"kimbo/internal/server/api"
	"kimbo/internal/server/backend"
	"kimbo/internal/server/config"
	"kimbo/internal/server/service"
	"kimbo/internal/server/storage"
)

func main() {
	// Structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server exited cleanly")
}

func run() error {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	slog.Info("configuration loaded",
		"port", cfg.Port,
		"storage_path", cfg.StoragePath,
		"max_file_size", cfg.MaxFileSize,
		"daily_limit_mb", cfg.DailyLimitMB,
		"counter_store", cfg.CounterStore,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	store := storage.NewFileSystemStore(cfg.StoragePath)
	if err := store.EnsureDir(); err != nil {
		return err
	}
	slog.Info("file storage initialized", "path", cfg.StoragePath)

	// Counter store and ledger
	b, err := backend.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open counter store: %w", err)
	}
	defer b.Close()

	pipeline := ingest.New(store, ingest.WithDefaultDirectory(cfg.UploadDirectory))
	svc := service.NewUploadService(b.Ledger(cfg), pipeline, cfg)

	// Setup HTTP router
	opts := []api.HandlerOption{
		api.WithHealthChecker(b),
		api.WithProduction(cfg.Production),
	}
	if cfg.FaceServiceURL != "" {
		faces, err := face.New(cfg.FaceServiceURL, face.WithTimeout(cfg.FaceTimeout))
		if err != nil {
			return err
		}
		opts = append(opts, api.WithFaceComparer(faces))
	}
	e, limiter := api.SetupRouter(api.NewHandler(svc, opts...), cfg)
	defer limiter.Stop()

	g, gctx := errgroup.WithContext(ctx)

	if sweeper, ok := b.Sweeper(cfg.SweepInterval); ok {
		g.Go(func() error {
			sweeper.Start(gctx)
			sweeper.Wait()
			return nil
		})
	}

	g.Go(func() error {
		addr := fmt.Sprintf(":%s", cfg.Port)
		slog.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		// Stop accepting new requests, finish in-flight with 30s timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
