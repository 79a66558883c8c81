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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/autogeral/dashboard-sso/internal/access"
	"github.com/autogeral/dashboard-sso/internal/config"
	"github.com/autogeral/dashboard-sso/internal/directory"
	"github.com/autogeral/dashboard-sso/internal/httpserver"
	"github.com/autogeral/dashboard-sso/internal/login"
	"github.com/autogeral/dashboard-sso/internal/metrics"
	"github.com/autogeral/dashboard-sso/internal/oidc"
	"github.com/autogeral/dashboard-sso/internal/session"
)

// serve wires the gateway together and runs it until a signal arrives.
func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	table, err := access.Load(cfg.Pages.File)
	if err != nil {
		return fmt.Errorf("failed to load permission table: %w", err)
	}

	provider, err := oidc.NewProvider(ctx, &cfg.OAuth)
	if err != nil {
		return fmt.Errorf("failed to set up identity provider client: %w", err)
	}

	sqlDir, err := directory.Open(ctx, &cfg.Directory)
	if err != nil {
		return fmt.Errorf("failed to open role directory: %w", err)
	}
	defer func() { _ = sqlDir.Close() }()

	var dir directory.Directory = sqlDir
	if cfg.Directory.CacheSeconds > 0 {
		dir = directory.NewCachedDirectory(sqlDir, time.Duration(cfg.Directory.CacheSeconds)*time.Second)
	}

	sessionMgr := session.NewManager(time.Duration(cfg.Session.Timeout) * time.Second)
	defer sessionMgr.Stop()

	controller := login.NewController(provider, dir, sessionMgr)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry, sessionMgr.Count)

	server, err := httpserver.NewServer(cfg, controller, sessionMgr, table, m, metrics.Handler(registry))
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	case sig := <-sigCh:
		slog.Info("received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("context canceled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
