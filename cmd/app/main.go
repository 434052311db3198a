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

	"github.com/redis/go-redis/v9"

	"github.com/msafer/waitlist/internal/audit"
	"github.com/msafer/waitlist/internal/config"
	"github.com/msafer/waitlist/internal/database"
	"github.com/msafer/waitlist/internal/database/postgres"
	"github.com/msafer/waitlist/internal/farcaster"
	"github.com/msafer/waitlist/internal/nonce"
	"github.com/msafer/waitlist/internal/ratelimit"
	"github.com/msafer/waitlist/internal/server"
	"github.com/msafer/waitlist/internal/session"
	"github.com/msafer/waitlist/internal/waitlist"
	"github.com/msafer/waitlist/internal/worker"
)

const serviceName = "waitlist"

// Database pool tuning
const (
	dbMaxConnections  = 25
	dbMaxConnIdleTime = 5 * time.Minute
	dbMaxConnLifetime = 30 * time.Minute
)

// shutdownTimeout bounds how long graceful shutdown may take
const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	initLogger(cfg)
	slog.Info("Starting waitlist service",
		"environment", cfg.Environment,
		"version", cfg.Version,
		"port", cfg.Port)

	ctx := context.Background()

	if err := database.RunMigrations(ctx, cfg.GetDBConnString()); err != nil {
		return err
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConnections, dbMaxConnIdleTime, dbMaxConnLifetime)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	nonceRepo := postgres.NewNonceRepository(dbPool)
	auditRepo := postgres.NewAuditRepository(dbPool)

	// Services
	auditService := audit.NewService(auditRepo)
	nonceService := nonce.NewService(nonceRepo)
	hubClient := farcaster.NewClient(cfg.FarcasterHubURL)
	waitlistService := waitlist.NewService(userRepo, nonceService, hubClient, auditService, cfg.SIWEDomain)
	adminService := waitlist.NewAdminService(userRepo, auditService)

	sessions := session.NewManager(cfg.SessionSecret)
	limiter := ratelimit.NewLimiter(newCounterStore(cfg), ratelimit.DefaultLimits())

	srv := server.NewServer(server.Config{
		Port:           cfg.Port,
		AdminKey:       cfg.AdminKey,
		TrustedProxies: cfg.TrustedProxies,
		Version:        cfg.Version,
	}, dbPool, waitlistService, adminService, auditService, sessions, limiter)

	purgeWorker := worker.NewPurgeWorker(nonceService, worker.DefaultPurgeInterval)
	purgeWorker.Start()

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Stop accepting requests first, then the background sweep
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Server forced shutdown", "error", err)
	}
	if err := purgeWorker.Shutdown(shutdownCtx); err != nil {
		slog.Error("Purge worker shutdown failed", "error", err)
	}

	slog.Info("Server stopped")
	return nil
}

// newCounterStore selects the rate-limit counter backend. Redis keeps counts
// consistent across replicas; the in-process store is for single-instance
// and local runs.
func newCounterStore(cfg *config.Config) ratelimit.CounterStore {
	if cfg.RedisAddr == "" {
		slog.Info("Rate limiting with in-process counters")
		return ratelimit.NewMemoryStore(ratelimit.MaxWindow())
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	slog.Info("Rate limiting with Redis counters", "addr", cfg.RedisAddr)
	return ratelimit.NewRedisStore(client)
}
