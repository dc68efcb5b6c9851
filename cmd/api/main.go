// Command api is the Hockey Explainer API server.
//
// Usage:
//
//	hockey-api
//	API_PORT=8080 KNOWLEDGE_DIR=./knowledge hockey-api

// @title Hockey Explainer API
// @version 1.0.0
// @description Explains hockey to fans of other sports. Resolves free-text queries against a curated knowledge base with fuzzy matching and compares NHL players to athletes in the NBA, NFL, MLB and soccer.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Hockey Explainer
// @license.name MIT
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/hockey-explainer/internal/api"
	"github.com/albapepper/hockey-explainer/internal/api/handler"
	"github.com/albapepper/hockey-explainer/internal/archetype"
	"github.com/albapepper/hockey-explainer/internal/assemble"
	"github.com/albapepper/hockey-explainer/internal/cache"
	"github.com/albapepper/hockey-explainer/internal/config"
	"github.com/albapepper/hockey-explainer/internal/db"
	"github.com/albapepper/hockey-explainer/internal/knowledge"
	"github.com/albapepper/hockey-explainer/internal/listener"
	"github.com/albapepper/hockey-explainer/internal/lookuplog"
	"github.com/albapepper/hockey-explainer/internal/maintenance"
	"github.com/albapepper/hockey-explainer/internal/provider/nhl"
	"github.com/albapepper/hockey-explainer/internal/resolver"
	"github.com/albapepper/hockey-explainer/internal/roster"
	"github.com/albapepper/hockey-explainer/internal/snapshot"

	_ "github.com/albapepper/hockey-explainer/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Knowledge base
	kb, err := knowledge.NewBase(cfg.KnowledgeDir, logger)
	if err != nil {
		logger.Error("Failed to load knowledge base", "error", err)
		os.Exit(1)
	}
	logger.Info("Knowledge base loaded", "domains", kb.Current().Counts())
	if cfg.KnowledgeWatch && cfg.KnowledgeDir != "" {
		go func() {
			if err := kb.Watch(ctx); err != nil {
				logger.Error("Knowledge watcher stopped", "error", err)
			}
		}()
	}

	pools, err := archetype.LoadPools()
	if err != nil {
		logger.Error("Failed to load archetype pools", "error", err)
		os.Exit(1)
	}

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	defer appCache.Close()
	kb.OnReload(maintenance.OnKnowledgeReload(appCache, logger))
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Roster gateway
	store, err := snapshot.Open(cfg.RosterSnapshotBackend, cfg.RosterSnapshotPath)
	if err != nil {
		logger.Error("Failed to open roster snapshot", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var src roster.Source
	if cfg.NHLAPIEnabled {
		src = nhl.NewClient(cfg.NHLAPIBaseURL, cfg.NHLRequestsPerMinute, cfg.ExternalTimeout, logger)
	} else {
		logger.Info("NHL provider disabled; serving snapshot roster only")
	}
	gateway := roster.New(src, store, roster.Options{
		Teams:       nhl.Teams,
		Timeout:     cfg.ExternalTimeout,
		FillTimeout: cfg.RosterFillTimeout,
		Logger:      logger,
		OnRefresh:   maintenance.OnRosterRefresh(appCache, logger),
	})
	go func() {
		if err := gateway.EnsureLoaded(ctx); err != nil {
			logger.Warn("Roster warmup failed; will retry on first lookup", "error", err)
		}
	}()

	deps := handler.Deps{
		Knowledge: kb,
		Resolver:  resolver.New(resolver.DefaultConfig()),
		Roster:    gateway,
		Assembler: assemble.New(pools, cfg.AssemblerSeed),
		Pools:     pools,
		Cache:     appCache,
	}

	// Lookup log (optional)
	var recorder *lookuplog.PGRecorder
	if cfg.DatabaseURL != "" {
		logger.Info("Connecting to database...")
		pool, err := db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)

		recorder = lookuplog.NewPGRecorder(pool.Pool, 1024, logger)
		go recorder.Run(ctx)
		go maintenance.Start(ctx, pool.Pool, maintenance.DefaultConfig(cfg.LookupRetentionDays), logger)

		// Replica sync over LISTEN/NOTIFY
		sync := listener.New(cfg.DatabaseURL, pool.Pool, logger)
		sync.Handle(listener.KindKnowledgeReload, func(context.Context) error { return kb.Reload() })
		sync.Handle(listener.KindRosterRefresh, func(ctx context.Context) error {
			_, err := gateway.Refresh(ctx)
			return err
		})
		go sync.Start(ctx)

		deps.DB = pool
		deps.Lookups = recorder
		deps.Sync = sync
	} else {
		logger.Info("Lookup log disabled (no DATABASE_URL)")
	}

	// Create router
	router := api.NewRouter(deps, cfg, logger)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Hockey Explainer API",
			"addr", addr,
			"environment", cfg.Environment,
			"admin", cfg.AdminEnabled(),
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	if recorder != nil {
		recorder.Wait()
	}
	logger.Info("Server stopped")
}
