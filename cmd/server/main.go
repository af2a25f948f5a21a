package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	goredis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"

	"github.com/mbodji/stockroom/internal/config"
	"github.com/mbodji/stockroom/internal/repository/mongodb"
	"github.com/mbodji/stockroom/internal/scheduler"
	"github.com/mbodji/stockroom/internal/server/handlers"
	"github.com/mbodji/stockroom/internal/server/router"
	inventorysvc "github.com/mbodji/stockroom/internal/service/inventory"
	reportingsvc "github.com/mbodji/stockroom/internal/service/reporting"
	"github.com/mbodji/stockroom/pkg/clients/webhook"
	"github.com/mbodji/stockroom/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Logging.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	// Initialize the alert webhook when configured
	var (
		alertNotifier  inventorysvc.Notifier
		reportNotifier reportingsvc.Notifier
	)
	if cfg.Alerts.WebhookURL != "" {
		client := webhook.NewClient(cfg.Alerts.WebhookURL)
		alertNotifier = client
		reportNotifier = client
		baseLogger.Info("low stock alert webhook enabled")
	} else {
		baseLogger.Warn("low stock webhook url missing, alerts disabled")
	}

	inventorySvc := inventorysvc.NewService(repo, alertNotifier, baseLogger.Named("svc.inventory"))
	reportingSvc := reportingsvc.NewService(repo, repo, reportNotifier, baseLogger.Named("svc.reporting"))
	productHandler := handlers.NewProductHandler(inventorySvc, baseLogger.Named("handlers.products"))

	rateStore, err := newRateLimitStore(cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init rate limit store", zap.Error(err))
	}

	engine := router.New(productHandler, cfg.HTTP, rateStore, baseLogger.Named("router"))

	// Initialize Scheduler
	if cfg.Reporting.CronSchedule != "" {
		sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, reportingSvc, baseLogger.Named("scheduler"))
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newRateLimitStore picks the limiter backend: Redis when an address is
// configured, in-process memory otherwise.
func newRateLimitStore(cfg *config.Config, logger *zap.Logger) (limiter.Store, error) {
	if cfg.Redis.Addr == "" {
		return memorystore.NewStore(), nil
	}

	client := goredis.NewClient(&goredis.Options{Addr: cfg.Redis.Addr})
	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "stockroom:ratelimit",
	})
	if err != nil {
		return nil, fmt.Errorf("init redis rate limit store: %w", err)
	}

	logger.Info("redis-backed rate limiting enabled", zap.String("addr", cfg.Redis.Addr))
	return store, nil
}
