package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"fastzila-analytics/internal/config"
	"fastzila-analytics/internal/notify"
	"fastzila-analytics/internal/revenue"
	"fastzila-analytics/internal/storage"
	"fastzila-analytics/pkg/logger"
	"fastzila-analytics/pkg/redis"
)

const jobName = "lenta_revenues"

func main() {
	zapLogger, err := logger.New()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	if err := run(zapLogger); err != nil {
		zapLogger.Error("Revenue run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(zapLogger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	store, err := storage.New(ctx, cfg.Database, zapLogger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := storage.RunMigrations(ctx, store.DB(), zapLogger); err != nil {
		return err
	}

	redisClient := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
	defer redisClient.Close()

	locked, err := redisClient.AcquireLock(ctx, jobName, time.Hour)
	if err != nil {
		return err
	}
	if !locked {
		zapLogger.Info("Another revenue run is in progress, exiting")
		return nil
	}
	defer redisClient.ReleaseLock(context.Background(), jobName)

	notifier, err := notify.New(cfg.Telegram.Token, cfg.Telegram.ChatID, zapLogger)
	if err != nil {
		return err
	}

	job := revenue.NewJob(store, notifier, zapLogger, cfg.ProjectID)

	// Both families run even when one fails: courier and picker payments are
	// independent and a tariff problem in one must not starve the other.
	return errors.Join(job.RunCouriers(ctx), job.RunPickers(ctx))
}
