// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Command carsouq runs the CarSouq marketplace web server.
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

	"carsouq/internal/cache"
	"carsouq/internal/config"
	"carsouq/internal/database"
	"carsouq/internal/handlers"
	"carsouq/internal/middleware"
	"carsouq/internal/pagesync"
	"carsouq/internal/render"
	"carsouq/internal/router"
	"carsouq/internal/session"
	"carsouq/internal/storage"
	"carsouq/internal/store"
)

const shutdownGrace = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("carsouq exited", "error", err)
		os.Exit(1)
	}
	slog.Info("carsouq stopped")
}

// run wires the backing services and serves HTTP until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config) error {
	slog.Info("starting carsouq", "env", cfg.Env, "addr", cfg.Addr())

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.MigrateContext(ctx, db); err != nil {
		return err
	}
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	valkey, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkey.Close()

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}

	photos, err := newPhotoStorage(cfg)
	if err != nil {
		return err
	}

	secureCookies := !cfg.IsDev()
	sessions := session.NewStore(valkey, secureCookies)

	profiles := store.NewProfileStore(db)
	roles := store.NewRoleStore(db)
	listings := store.NewListingStore(db)
	favorites := store.NewFavoriteStore(db)
	sections := store.NewSectionStore(db)
	categories := store.NewCategoryStore(db)
	featured := cache.NewFeaturedCache(valkey, cache.DefaultFeaturedTTL)
	dispatcher := pagesync.NewDispatcher(pagesync.NewGuard(valkey))

	handler := router.New(router.Deps{
		Sessions:      sessions,
		Roles:         roles,
		LoginLimiter:  middleware.NewRateLimiter(valkey, cfg.LoginRateLimit, time.Minute),
		SecureCookies: secureCookies,
		Public:        handlers.NewPublic(renderer, listings, sections, favorites, featured),
		Auth:          handlers.NewAuth(renderer, sessions, profiles),
		Account: handlers.NewAccount(handlers.AccountDeps{
			Renderer:   renderer,
			Dispatcher: dispatcher,
			Sessions:   sessions,
			Profiles:   profiles,
			Roles:      roles,
			Listings:   listings,
			Categories: categories,
			Favorites:  favorites,
			Messages:   store.NewMessageStore(db),
			Storage:    photos,
			Featured:   featured,
		}),
		Admin: handlers.NewAdmin(handlers.AdminDeps{
			Renderer:   renderer,
			Dispatcher: dispatcher,
			Profiles:   profiles,
			Roles:      roles,
			Listings:   listings,
			Favorites:  favorites,
			Sections:   sections,
			Categories: categories,
			CarModels:  store.NewCarModelStore(db),
			Audit:      store.NewAuditStore(db),
			Storage:    photos,
			Featured:   featured,
		}),
	})

	// WriteTimeout covers multipart photo uploads forwarded to S3.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("draining connections", "grace", shutdownGrace)
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// newPhotoStorage returns the S3 client, or nil when no bucket is set up.
// Without it listings accept image URLs only.
func newPhotoStorage(cfg *config.Config) (*storage.Client, error) {
	if !cfg.HasStorage() {
		slog.Warn("photo uploads disabled: S3 not configured")
		return nil, nil
	}
	client, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		return nil, fmt.Errorf("s3: %w", err)
	}
	slog.Info("photo storage ready", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	return client, nil
}

// newLogger logs text at debug level in development and JSON at info
// level elsewhere.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDev() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
