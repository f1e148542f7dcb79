// Package main is the entry point for the newsdesk API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	"newsdesk/internal/database"
	"newsdesk/internal/handlers"
	"newsdesk/internal/pages"
	"newsdesk/internal/publish"
	"newsdesk/internal/router"
	"newsdesk/internal/storage"
	"newsdesk/internal/store"
)

func main() {
	// Structured logger for the whole process.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Response cache: Valkey when reachable, in-memory otherwise. Entries
	// are pure derived data with a TTL, so the in-memory fallback only
	// costs cold reads after a restart.
	var responseCache handlers.ResponseCache
	valkeyClient, err := cache.Connect(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		if !cfg.IsDev() {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		slog.Warn("valkey unavailable, using in-memory response cache", "error", err)
		responseCache = cache.NewMemory(cache.DefaultTTL)
	} else {
		defer valkeyClient.Close()
		responseCache = cache.NewResponse(valkeyClient, cache.DefaultTTL)
	}

	// Initialize data stores.
	authorStore := store.NewAuthorStore(db)
	articleStore := store.NewArticleStore(db)
	auditStore := store.NewCacheLogStore(db)

	// Connect to S3-compatible image storage (optional; articles can be
	// managed without it, image disposal becomes a no-op).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient == nil {
		slog.Warn("s3 storage not configured, image disposal disabled")
	}

	// Static-page revalidator (optional, nil when no front-end webhook).
	var invalidator publish.PageInvalidator
	if reval := pages.NewRevalidator(cfg.RevalidateURL, cfg.RevalidateSecret); reval != nil {
		invalidator = reval
	} else {
		slog.Warn("revalidation webhook not configured, static page invalidation disabled")
	}

	// Wire the visibility/promotion engine.
	denormalizer := publish.NewDenormalizer(articleStore, authorStore, responseCache)
	coordinator := publish.NewCoordinator(responseCache, invalidator)

	// Create handler groups with their dependencies.
	backOffice := handlers.NewBackOffice(articleStore, authorStore, denormalizer, coordinator, storageClient, auditStore)
	public := handlers.NewPublic(articleStore, responseCache)

	// Set up the Chi router with all middleware and routes.
	r := router.New(public, backOffice, router.Tokens{
		Admin:     cfg.AdminToken,
		Author:    cfg.AuthorToken,
		Publisher: cfg.PublisherToken,
	})

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
