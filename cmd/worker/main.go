package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ballast-erp/ballast-erp/internal/app"
	"github.com/ballast-erp/ballast-erp/internal/ledger"
	"github.com/ballast-erp/ballast-erp/internal/platform/cache"
	"github.com/ballast-erp/ballast-erp/internal/platform/db"
	"github.com/ballast-erp/ballast-erp/internal/reporting"
	"github.com/ballast-erp/ballast-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	snapshotStore := jobs.NewPGSnapshotStore(pool)
	reportingService := reporting.NewService(logger, ledger.NewRepository(pool)).
		WithCache(reporting.NewRedisDashboardCache(redisClient), cfg.DashboardCacheTTL)
	orgLister := jobs.NewPGOrgLister(pool)

	nightly, err := jobs.NewValuationSnapshotTask(time.Now().UTC())
	if err != nil {
		logger.Error("build valuation task", slog.Any("error", err))
		os.Exit(1)
	}
	warmup, err := jobs.NewDashboardWarmupTask(time.Now().UTC())
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskValuationSnapshot, Handler: jobs.NewValuationSnapshotHandler(logger, snapshotStore)},
			{Type: jobs.TaskDashboardWarmup, Handler: jobs.NewDashboardWarmupHandler(logger, orgLister, reportingService)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 2 * * *", Task: nightly},
			{Spec: "*/15 * * * *", Task: warmup},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
