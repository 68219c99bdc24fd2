package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	v1 "github.com/vmunix/subarr/internal/api/v1"
	"github.com/vmunix/subarr/internal/config"
	"github.com/vmunix/subarr/internal/server"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runServer(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	app, err := server.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	// === HTTP Setup ===
	mux := http.NewServeMux()
	apiV1, err := v1.New(v1.ServerDeps{
		Library:  app.Store,
		Indexer:  app.Indexer,
		Scans:    app.Runner,
		Jobs:     app.Jobs,
		Bus:      app.Bus,
		EventLog: app.EventLog,
		Metrics:  promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}),
		UseCache: cfg.Scan.UseFFprobeCache,
	}, logger)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	apiV1.RegisterRoutes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	app.Runner.SetHTTPServer(&http.Server{Addr: addr, Handler: v1.LogRequests(mux, logger)})

	logger.Info("server starting",
		"addr", addr,
		"config", configPath,
		"database", cfg.Database.Path,
		"embedded_subs", cfg.General.UseEmbeddedSubs,
		"concurrency", cfg.Scan.Concurrency,
		"schedule", cfg.Scan.Schedule,
		"log_level", cfg.Server.LogLevel,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Runner.Run(ctx); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
