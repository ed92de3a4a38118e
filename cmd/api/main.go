// Package main is the entry point for the trek booking API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"

	"github.com/pkordes/trek-booking/internal/auth"
	"github.com/pkordes/trek-booking/internal/config"
	"github.com/pkordes/trek-booking/internal/handler"
	"github.com/pkordes/trek-booking/internal/media"
	"github.com/pkordes/trek-booking/internal/middleware"
	"github.com/pkordes/trek-booking/internal/repo"
	"github.com/pkordes/trek-booking/internal/service"
	"github.com/pkordes/trek-booking/internal/telemetry"
	"github.com/pkordes/trek-booking/migrations"
)

const serviceName = "trek-booking"

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Tracing ----------------------------------------------------------
	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, serviceName)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Error("trace flush failed", "error", err)
		}
	}()

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// The database container often comes up after the API in compose setups.
	if err := waitForDB(ctx, pool); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		if err := migrate(ctx, pool); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	// --- Dependencies -----------------------------------------------------
	tokens, err := auth.NewTokens(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		slog.Error("token setup failed", "error", err)
		os.Exit(1)
	}

	uploader, err := newUploader(cfg)
	if err != nil {
		slog.Error("media setup failed", "error", err)
		os.Exit(1)
	}

	snapshot := repo.NewSnapshot(pool)
	services := handler.Services{
		Treks:        service.NewTrekService(repo.NewUnitOfWork(pool), uploader),
		Projections:  service.NewProjectionService(snapshot),
		Export:       service.NewExportService(snapshot),
		TrekTypes:    service.NewTrekTypeService(repo.NewTrekTypeRepo(pool), uploader),
		Guides:       service.NewGuideService(repo.NewGuideRepo(pool), uploader),
		Testimonials: service.NewTestimonialService(repo.NewTestimonialRepo(pool), uploader),
		Users:        service.NewUserService(repo.NewUserRepo(pool), tokens),
	}
	opts := handler.Options{
		Logger:       logger,
		CookieSecure: cfg.CookieSecure,
		AccessTTL:    cfg.AccessTokenTTL,
		RefreshTTL:   cfg.RefreshTokenTTL,
	}
	if !cfg.UseCloudinary() {
		opts.UploadDir = cfg.UploadDir
	}

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Mount("/", handler.NewServer(services, opts).Routes(tokens))

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for uploads to the media host.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "cloudinary", cfg.UseCloudinary())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// waitForDB pings the pool with exponential backoff for up to 30 seconds.
func waitForDB(ctx context.Context, pool *pgxpool.Pool) error {
	backoff := retry.WithMaxDuration(30*time.Second, retry.NewExponential(250*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("database not ready", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

// migrate applies the embedded migrations through a database/sql handle
// borrowed from the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	versions, err := migrations.Up(ctx, db)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "versions", versions)
	return nil
}

func newUploader(cfg config.Config) (media.Uploader, error) {
	if cfg.UseCloudinary() {
		c, err := media.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return media.NewDisk(cfg.UploadDir, cfg.PublicBaseURL+"/public/uploads")
}
