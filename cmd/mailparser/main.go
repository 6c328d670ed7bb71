package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"fastzila-analytics/internal/config"
	"fastzila-analytics/internal/ingest"
	"fastzila-analytics/internal/mailbox"
	"fastzila-analytics/internal/notify"
	"fastzila-analytics/internal/storage"
	"fastzila-analytics/pkg/logger"
	"fastzila-analytics/pkg/redis"
)

const jobName = "lenta_mail_parser"

func main() {
	zapLogger, err := logger.New()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	if err := run(zapLogger); err != nil {
		zapLogger.Error("Mail parsing run failed", zap.Error(err))
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

	locked, err := redisClient.AcquireLock(ctx, jobName, 30*time.Minute)
	if err != nil {
		return err
	}
	if !locked {
		zapLogger.Info("Another mail parsing run is in progress, exiting")
		return nil
	}
	defer redisClient.ReleaseLock(context.Background(), jobName)

	notifier, err := notify.New(cfg.Telegram.Token, cfg.Telegram.ChatID, zapLogger)
	if err != nil {
		return err
	}

	files, err := mailbox.New(cfg.Mail, redisClient, zapLogger).Fetch(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		zapLogger.Info("No new attachments")
		return nil
	}

	return ingest.NewJob(store, notifier, zapLogger).Process(ctx, files)
}
