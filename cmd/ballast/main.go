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

	"github.com/hibiken/asynq"

	"github.com/ballast-erp/ballast-erp/internal/app"
	"github.com/ballast-erp/ballast-erp/internal/auth"
	"github.com/ballast-erp/ballast-erp/internal/catalog"
	"github.com/ballast-erp/ballast-erp/internal/gains"
	"github.com/ballast-erp/ballast-erp/internal/ledger"
	"github.com/ballast-erp/ballast-erp/internal/observability"
	"github.com/ballast-erp/ballast-erp/internal/orders"
	"github.com/ballast-erp/ballast-erp/internal/platform/cache"
	"github.com/ballast-erp/ballast-erp/internal/platform/db"
	"github.com/ballast-erp/ballast-erp/internal/reporting"
	"github.com/ballast-erp/ballast-erp/internal/tenant"
	"github.com/ballast-erp/ballast-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	authService := auth.NewService(auth.NewRepository(pool), cfg.JWTSecret, cfg.TokenTTL)
	authHandler := auth.NewHandler(logger, authService)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	orgCache := tenant.NewRedisCache(redisClient)
	tenantService := tenant.NewService(tenant.NewRepository(pool), orgCache, cfg.OrgCacheTTL, logger).
		WithEnqueuer(jobsClient)
	tenantHandler := tenant.NewHandler(logger, tenantService)

	catalogService := catalog.NewService(logger, catalog.NewRepository(pool))
	catalogHandler := catalog.NewHandler(logger, catalogService)

	orderService := orders.NewService(logger, orders.NewRepository(pool), catalogService, cfg.AllowNegativeStock)
	sellHandler := orders.NewHandler(logger, orderService, orders.KindSell)
	buyHandler := orders.NewHandler(logger, orderService, orders.KindBuy)

	gainService := gains.NewService(logger, gains.NewRepository(pool))
	gainHandler := gains.NewHandler(logger, gainService)

	ledgerRepo := ledger.NewRepository(pool)
	ledgerService := ledger.NewService(logger, ledgerRepo)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	reportingService := reporting.NewService(logger, ledgerRepo).
		WithCache(reporting.NewRedisDashboardCache(redisClient), cfg.DashboardCacheTTL)
	reportingHandler := reporting.NewHandler(logger, reportingService)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthService:      authService,
		TenantService:    tenantService,
		AuthHandler:      authHandler,
		TenantHandler:    tenantHandler,
		CatalogHandler:   catalogHandler,
		SellHandler:      sellHandler,
		BuyHandler:       buyHandler,
		GainHandler:      gainHandler,
		LedgerHandler:    ledgerHandler,
		ReportingHandler: reportingHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
