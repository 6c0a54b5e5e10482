package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apphttp "marketplace_backend/internal/http"
	"marketplace_backend/internal/http/router"
	"marketplace_backend/internal/listings"
	"marketplace_backend/internal/listings/cache"
	"marketplace_backend/internal/listings/repository"
	"marketplace_backend/internal/listings/service"
	"marketplace_backend/internal/scheduler"
	"marketplace_backend/platform/config"
	"marketplace_backend/platform/db"
	"marketplace_backend/platform/logger"
	"marketplace_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if cfg.GetRunMigrations() && !cfg.UsesFixtures() {
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, cfg)
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")
	}

	store, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	var facetCache service.FacetCache
	if cfg.IsRedisEnabled() {
		rdb, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Error("failed to initialize redis client", "error", err)
			panic("failed to initialize redis client: " + err.Error())
		}
		defer func() { _ = rdb.Close() }()
		facetCache = cache.NewFacets(rdb, cfg.GetFacetCacheTTL(), log)
		log.Info("facet cache enabled", "ttl", cfg.GetFacetCacheTTL().String())
	} else {
		log.Warn("REDIS_URL not configured; facet cache and refresh jobs disabled")
	}

	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	listingsModule := listings.NewModule(store, facetCache, cfg, val, log)

	if cfg.IsRedisEnabled() {
		requestStartupRefresh(ctx, cfg, log)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Health:  store,
		Modules: []apphttp.Module{listingsModule},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// openStore returns the fixture-backed store when LISTINGS_FIXTURES_PATH is
// set, otherwise the Postgres repository.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.Store, func()) {
	if cfg.UsesFixtures() {
		store, err := repository.LoadFixtures(cfg.ListingsFixturesPath)
		if err != nil {
			log.Error("failed to load listing fixtures", "error", err, "path", cfg.ListingsFixturesPath)
			panic("failed to load listing fixtures: " + err.Error())
		}
		log.Info("serving listings from fixtures", "path", cfg.ListingsFixturesPath)
		return store, func() {}
	}

	var store *repository.Repo
	var closeFn func()
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		store = repository.New(pool)
		closeFn = pool.Close
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	log.Info("database connection established")
	return store, closeFn
}

func requestStartupRefresh(ctx context.Context, cfg config.SchedulerConfig, log *logger.Logger) {
	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return
	}
	defer func() { _ = client.Close() }()

	if err := client.EnqueueFacetsRefresh(ctx, "startup"); err != nil {
		log.Warn("failed to enqueue facet refresh", "error", err)
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
