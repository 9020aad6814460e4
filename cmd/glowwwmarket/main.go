// Package main is the entry point for the Glowww marketplace server.
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

	"glowwwmarket/internal/cache"
	"glowwwmarket/internal/config"
	"glowwwmarket/internal/curation"
	"glowwwmarket/internal/database"
	"glowwwmarket/internal/handlers"
	"glowwwmarket/internal/market"
	"glowwwmarket/internal/moderation"
	"glowwwmarket/internal/quality"
	"glowwwmarket/internal/router"
	"glowwwmarket/internal/storage"
	"glowwwmarket/internal/store"
	"glowwwmarket/internal/versioning"
)

func main() {
	// Structured logger — text handler, debug level.
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

	// Connect to Valkey for discovery-collection caching. Collections are
	// served straight from Postgres when the cache is down.
	var discoveryCache *cache.DiscoveryCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, discovery caching disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		discoveryCache = cache.NewDiscoveryCache(valkeyClient, cache.DefaultDiscoveryTTL)
	}

	// Initialize data stores.
	templateStore := store.NewTemplateStore(db)
	ratingStore := store.NewRatingStore(db)
	versionStore := store.NewVersionStore(db)
	collectionStore := store.NewCollectionStore(db)

	// Connect to S3-compatible object storage (optional — snapshots are
	// simply not mirrored without it).
	archive, err := storage.NewArchive(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		slog.Error("failed to initialize S3 archive", "error", err)
		os.Exit(1)
	}
	if archive != nil {
		slog.Info("s3 archive connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 archive not configured — snapshot mirroring disabled")
	}

	// Optional content screening for new submissions.
	screener := moderation.New(cfg.ModerationAPIKey, cfg.ModerationBaseURL)
	if screener == nil {
		slog.Warn("content screening not configured — submissions go straight to review")
	}

	// Marketplace engines.
	qualityAgg := quality.NewAggregator(ratingStore)
	curator := curation.NewCurator(templateStore, collectionStore, discoveryCache)

	// versioning.Manager takes the Archiver interface; a nil *storage.Archive
	// must stay a nil interface value.
	var archiver versioning.Archiver
	var cleaner market.ArchiveCleaner
	if archive != nil {
		archiver = archive
		cleaner = archive
	}
	versionManager := versioning.NewManager(templateStore, versionStore, archiver)
	marketService := market.NewService(templateStore, versionStore, curator, screener, cleaner, cfg.PublicBaseURL)

	// Create handler groups with their dependencies.
	templateHandlers := handlers.NewTemplates(marketService)
	ratingHandlers := handlers.NewRatings(qualityAgg)
	versionHandlers := handlers.NewVersions(versionManager)
	collectionHandlers := handlers.NewCollections(curator)

	// Set up the chi router with all middleware and routes.
	r := router.New(templateHandlers, ratingHandlers, versionHandlers, collectionHandlers)

	// Create the HTTP server with sensible timeouts. WriteTimeout covers
	// snapshot uploads mirrored to S3 in the request path.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
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
