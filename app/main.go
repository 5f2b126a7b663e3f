package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-reader/app/api"
	"github.com/lysyi3m/rss-reader/app/cfg"
	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/i18n"
	"github.com/lysyi3m/rss-reader/app/relay"
	"github.com/lysyi3m/rss-reader/app/state"
	"github.com/lysyi3m/rss-reader/app/tasks"
	"github.com/lysyi3m/rss-reader/app/validation"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting RSS Reader", "version", appCfg.Version, "lang", appCfg.Lang)

	translator, err := i18n.New(appCfg.Lang)
	if err != nil {
		slog.Error("Failed to load translations", "error", err)
		os.Exit(1)
	}

	relayClient, err := relay.NewClient(relay.Options{
		Endpoint:  appCfg.RelayURL,
		Timeout:   appCfg.GetRelayTimeout(),
		RateLimit: appCfg.RelayRate,
		UserAgent: appCfg.UserAgent,
	})
	if err != nil {
		slog.Error("Failed to create relay client", "error", err)
		os.Exit(1)
	}

	store := state.New(appCfg.Lang)

	scheduler := tasks.NewScheduler(store, relayClient, feed.NewParser(), validation.New(), tasks.Options{
		Interval:          appCfg.GetRefreshInterval(),
		WorkerCount:       appCfg.WorkerCount,
		IsolateFeedErrors: appCfg.IsolateFeedErrors,
	})
	scheduler.Start()
	defer scheduler.Stop()

	slog.Info("Scheduler started",
		"workers", appCfg.WorkerCount,
		"interval", appCfg.GetRefreshInterval(),
		"isolate_feed_errors", appCfg.IsolateFeedErrors)

	seedURLs, err := feed.LoadSeed(appCfg.FeedsFile)
	if err != nil {
		slog.Error("Failed to load seed file", "path", appCfg.FeedsFile, "error", err)
		os.Exit(1)
	}
	for _, url := range seedURLs {
		if _, err := scheduler.SubmitFeed(url); err != nil {
			slog.Warn("Seed feed rejected", "feed", url, "error", err)
		}
	}
	if len(seedURLs) > 0 {
		slog.Info("Seed feeds submitted", "count", len(seedURLs))
	}

	hub := api.NewHub(store)
	handler := api.NewHandler(store, scheduler, translator, hub)
	router := api.NewServer(handler, appCfg.Debug)

	// no WriteTimeout: event streams stay open
	httpServer := &http.Server{
		Addr:              ":" + appCfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	httpServer.RegisterOnShutdown(hub.Close)

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
