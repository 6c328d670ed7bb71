package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"fastzila-analytics/internal/config"
	"fastzila-analytics/internal/storage"
	"fastzila-analytics/internal/vacancies"
	"fastzila-analytics/pkg/logger"
)

func main() {
	zapLogger, err := logger.New()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	if err := run(zapLogger); err != nil {
		zapLogger.Error("Vacancy scraping run failed", zap.Error(err))
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

	client := vacancies.NewClient(cfg.HH, zapLogger)
	return vacancies.NewJob(client, store, zapLogger, cfg.HH.Specialisations).Run(ctx)
}
