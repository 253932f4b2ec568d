// cmd/web/main.go
//
// leadcore – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (host-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load and validate configuration (YAML → env → Vault secrets).
//
//  4. Open the remote inquiry store and the local fallback file.
//
//  5. Seed webhook settings: fallback-store values over config defaults.
//
//  6. Wire the change feed, orchestrator, and admin mirror.
//
//  7. Serve: public intake API, admin API, /healthz, Prometheus /metrics.
//
// Shutdown drains in-flight requests, then closes the mirror subscription
// and the database pool.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/sirstudio/leadcore/internal/admin"
	"github.com/sirstudio/leadcore/internal/config"
	"github.com/sirstudio/leadcore/internal/database"
	"github.com/sirstudio/leadcore/internal/fallback"
	"github.com/sirstudio/leadcore/internal/inquiry"
	"github.com/sirstudio/leadcore/internal/intake"
	"github.com/sirstudio/leadcore/internal/logger"
	"github.com/sirstudio/leadcore/internal/middleware"
	"github.com/sirstudio/leadcore/internal/relay"
	"github.com/sirstudio/leadcore/internal/requestinfo"
	"github.com/sirstudio/leadcore/internal/server"
)

const serverEnvPath = "/usr/local/etc/leadcore/global.env"

// loadEnv prefers the host-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer logOut.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	cfg, err := config.Load(ctx)
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}
	logOut.Infow("config loaded", "listen", cfg.HTTP.ListenAddr,
		"services", len(cfg.Intake.Services))

	//
	// ── 2.  Remote inquiry store ────────────────────────────────────────
	//
	logOut.Info("connecting to inquiry DB ...")
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		logOut.Fatalf("connect inquiry DB: %v", err)
	}
	defer db.Close()
	logOut.Info("inquiry DB online")

	//
	// ── 3.  Local fallback store and webhook settings ───────────────────
	//
	local, err := fallback.Open(cfg.Paths.Root + "/data/fallback.json")
	if err != nil {
		logOut.Fatalf("open fallback store: %v", err)
	}
	settings := relay.NewSettings(local, fallback.WebhookConfig{
		URL:         cfg.Webhook.URL,
		NotifyEmail: cfg.Webhook.NotifyEmail,
	})

	//
	// ── 4.  Request enrichment (UA always, geo when configured) ─────────
	//
	if cfg.Geo.CityDB != "" {
		if err := requestinfo.InitGeo(cfg.Geo.CityDB); err != nil {
			logOut.Warnw("geo database unavailable, continuing without",
				"path", cfg.Geo.CityDB, "err", err)
		}
	}

	//
	// ── 5.  Core wiring: feed → store → orchestrator → mirror ──────────
	//
	feed := inquiry.NewFeed()
	store := inquiry.NewStore(db, feed)
	notifier := relay.NewNotifier()
	orch := intake.New(store, local, notifier, settings, logOut)

	view := admin.NewView(store, feed, notifier, settings, logOut)
	if err := view.Start(ctx); err != nil {
		logOut.Fatalf("start admin mirror: %v", err)
	}
	defer view.Close()

	//
	// ── 6.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(middleware.Security)
	r.Use(requestinfo.Enrich)

	r.Mount("/api", intake.NewHandler(orch, cfg.Intake.Services).Routes())
	r.Mount("/admin", admin.NewHandler(view, local, settings).Routes())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "db unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	//
	// ── 7.  Serve until signalled, then drain ───────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalf("server: %v", err)
	}
	logOut.Info("shutdown complete")
}
