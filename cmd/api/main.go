// Package main is the entry point for the Captain's Deck API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/captainsdeck/backend/internal/auth"
	"github.com/captainsdeck/backend/internal/config"
	"github.com/captainsdeck/backend/internal/costs"
	"github.com/captainsdeck/backend/internal/domain"
	"github.com/captainsdeck/backend/internal/handler"
	"github.com/captainsdeck/backend/internal/middleware"
	"github.com/captainsdeck/backend/internal/repo"
	"github.com/captainsdeck/backend/internal/service"
	"github.com/captainsdeck/backend/internal/stream"
	"github.com/captainsdeck/backend/migrations"
	"github.com/captainsdeck/backend/spec"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog JSON handler writes machine-readable output suitable for log
	// aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if err := migrate(cfg.DatabaseURL); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// --- Repositories -----------------------------------------------------
	trips := repo.NewTripRepo(pool)
	yachts := repo.NewYachtRepo(pool)
	payments := repo.NewPaymentRepo(pool)
	settings := repo.NewSettingsRepo(pool)
	captains := repo.NewCaptainRepo(pool)

	// --- Live update hub --------------------------------------------------
	conv := costs.NewConverter(domain.DefaultExchangeRate)
	hub := stream.NewHub(snapshots(trips, yachts, payments, settings), logger)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	// --- Services ---------------------------------------------------------
	httpClient := &http.Client{Timeout: 15 * time.Second}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := service.NewAuthService(captains, tokens)
	tripSvc := service.NewTripService(trips, yachts, hub)
	yachtSvc := service.NewYachtService(yachts, hub)
	paymentSvc := service.NewPaymentService(payments, conv, hub)
	rateSvc := service.NewRateService(settings, conv, hub, httpClient, cfg.RateAPIURL)

	strategies := []service.FetchStrategy{service.DirectFetch()}
	for _, proxy := range cfg.EnrichProxies {
		strategies = append(strategies, service.ProxyFetch(proxy))
	}
	enrichSvc := service.NewEnrichService(httpClient, strategies)

	// Seed the converter from the stored rate and provision the captain
	// account before accepting traffic.
	if err := rateSvc.Prime(context.Background()); err != nil {
		slog.Error("failed to load exchange rate", "error", err)
		os.Exit(1)
	}
	if err := authSvc.EnsureCaptain(context.Background(), cfg.CaptainEmail, cfg.CaptainPassword); err != nil {
		slog.Error("failed to provision captain account", "error", err)
		os.Exit(1)
	}

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → SlogLogger → Recoverer → CORS →
	// body cap → session resolution.
	srv := handler.NewServer(tripSvc, yachtSvc, paymentSvc, rateSvc, authSvc, enrichSvc, conv, spec.OpenAPI)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(1 << 20))
	r.Use(middleware.NewSessionResolver(tokens))

	r.Get("/ws", hub.ServeWS)
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// WriteTimeout stays 0: it would sever long-lived WebSocket connections.
	httpSrv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	stopHub()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies all pending embedded migrations via goose.
func migrate(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}

// snapshots wires the live-update hub's channel loaders to the repositories.
// Each loader returns the full current state of its channel.
func snapshots(trips repo.TripRepo, yachts repo.YachtRepo, payments repo.PaymentRepo, settings repo.SettingsRepo) stream.Snapshots {
	return stream.Snapshots{
		Trips: func(ctx context.Context) (any, error) {
			return trips.List(ctx)
		},
		Trip: func(ctx context.Context, id uuid.UUID) (any, error) {
			return trips.GetByID(ctx, id)
		},
		Yachts: func(ctx context.Context, tripID uuid.UUID) (any, error) {
			return yachts.ListByTrip(ctx, tripID)
		},
		Payments: func(ctx context.Context, tripID uuid.UUID) (any, error) {
			return payments.ListByTrip(ctx, tripID)
		},
		Settings: func(ctx context.Context) (any, error) {
			return settings.Get(ctx)
		},
	}
}
