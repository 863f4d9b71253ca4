package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tvde/internal/amqp"
	"tvde/internal/config"
	"tvde/internal/export"
	applog "tvde/internal/log"
	"tvde/internal/services"
	"tvde/internal/storage"
	"tvde/internal/store"
	"tvde/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting tvde-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.DataBackend != "sqlite" {
		logger.Error("The worker needs the shared sqlite backend", "backend", cfg.DataBackend)
		os.Exit(1)
	}

	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	st := store.New(sqliteRepo)
	if err := st.Load(context.Background()); err != nil {
		logger.Error("Failed to load collections", "error", err)
		os.Exit(1)
	}

	backups := services.NewBackupService(st, nil, nil, nil)
	scheduler := worker.NewSnapshotScheduler(st, backups, cfg.SnapshotCheckInterval)

	// The Sheets export only runs when both a spreadsheet and the broker
	// are configured; snapshots run regardless.
	var (
		amqpClient   *amqp.Client
		exportWorker *worker.ExportWorker
	)
	if cfg.SheetsEnabled() && cfg.AMQPEnabled() {
		sheetsClient, err := export.NewSheetsClient(context.Background(), export.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsFile: cfg.GoogleCredentialsFile,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		exportWorker = worker.NewExportWorker(st, sheetsClient)
	} else {
		logger.Info("Sheets export disabled",
			"sheets_configured", cfg.SheetsEnabled(),
			"amqp_configured", cfg.AMQPEnabled())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return scheduler.Run(ctx)
	})

	if exportWorker != nil {
		g.Go(func() error {
			return amqpClient.Consume(ctx, func(e amqp.Event) error {
				return exportWorker.HandleEvent(ctx, e)
			})
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
