package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/p-n-ai/pai-study/internal/agent"
	"github.com/p-n-ai/pai-study/internal/knowledge"
	"github.com/p-n-ai/pai-study/internal/platform/cache"
	"github.com/p-n-ai/pai-study/internal/platform/config"
	"github.com/p-n-ai/pai-study/internal/platform/database"
	"github.com/p-n-ai/pai-study/internal/server"
)

func main() {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.Log, os.Stdout))

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	store, err := loadKnowledge(cfg.Content)
	if err != nil {
		slog.Error("failed to load content", "error", err)
		os.Exit(1)
	}
	holder := knowledge.NewHolder(store)

	if cfg.Content.Watch {
		watcher, err := knowledge.NewWatcher(cfg.Content.Path, holder)
		if err != nil {
			slog.Error("failed to watch content", "path", cfg.Content.Path, "error", err)
			os.Exit(1)
		}
		defer watcher.Close()
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("content watcher stopped", "error", err)
			}
		}()
	}

	checks := map[string]server.Check{}
	svcCfg := agent.ServiceConfig{Knowledge: holder}

	if cfg.Database.URL != "" {
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			slog.Warn("database unavailable, event log disabled", "error", err)
		} else if err := db.Migrate(ctx); err != nil {
			slog.Warn("database migration failed, event log disabled", "error", err)
			db.Close()
		} else {
			defer db.Close()
			svcCfg.Events = agent.NewPostgresEventLogger(db.Pool)
			checks["database"] = db.HealthCheck
			slog.Info("event log enabled")
		}
	}

	if cfg.Cache.URL != "" {
		c, err := cache.New(ctx, cfg.Cache.URL, cfg.Cache.TTL)
		if err != nil {
			slog.Warn("cache unavailable, reply cache disabled", "error", err)
		} else {
			defer c.Close()
			svcCfg.Cache = c
			checks["cache"] = c.HealthCheck
			slog.Info("reply cache enabled", "ttl", cfg.Cache.TTL)
		}
	}

	handler := server.New(server.Config{
		Knowledge:      holder,
		Answerer:       agent.NewService(svcCfg),
		QuizSize:       cfg.Study.QuizSize,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Checks:         checks,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// loadKnowledge reads content from disk when a path is configured and falls
// back to the compiled-in content otherwise.
func loadKnowledge(cfg config.ContentConfig) (*knowledge.Store, error) {
	if cfg.Path == "" {
		return knowledge.Default()
	}
	return knowledge.LoadDir(cfg.Path)
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
