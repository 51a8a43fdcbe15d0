package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/threatmap-io/threatmap/internal/api"
	"github.com/threatmap-io/threatmap/internal/config"
	"github.com/threatmap-io/threatmap/internal/history"
	"github.com/threatmap-io/threatmap/internal/intel"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "Path to YAML config")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"locations", len(cfg.Generator.Locations),
		"attack_types", len(cfg.Generator.AttackTypes),
		"tick_interval", cfg.Generator.TickInterval(),
		"intel_configured", cfg.Intel.APIKey != "",
	)

	// ── History store ─────────────────────────────────────────────────────────
	client := intel.NewClient(cfg.Intel.BaseURL, cfg.Intel.APIKey, cfg.Intel.Timeout())
	store := history.NewStore(client, cfg.Generator)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.History.WarmDays > 0 {
		go store.Warm(ctx, cfg.History.WarmDays, cfg.History.WarmWorkers)
	}

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	loader.OnChange(func(newCfg *config.Config) {
		if err := config.Validate(newCfg); err != nil {
			slog.Warn("hot-reload skipped: config invalid", "err", err)
			return
		}
		store.SetGeneratorConf(newCfg.Generator)
		slog.Info("config hot-reloaded", "locations", len(newCfg.Generator.Locations))
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.New(store, loader)
	srv := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     handler,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
		// No WriteTimeout: the SSE and WebSocket streams are long-lived.
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	cancel() // stop warm-up and any in-flight streams
	slog.Info("goodbye")
}
