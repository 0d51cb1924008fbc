package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmbook/internal/amqp"
	"farmbook/internal/cli"
	gledger "farmbook/internal/ledger/google"
	"farmbook/internal/log"
	"farmbook/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting farmbook-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// The ledger mirror is optional; without it the worker only logs.
	var ledgerClient *gledger.Client
	if cfg.GoogleSpreadsheetID != "" {
		var err error
		ledgerClient, err = gledger.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize ledger client", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Ledger client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Ledger mirroring disabled, no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var syncWorker *worker.SyncWorker
	if ledgerClient != nil {
		syncWorker = worker.NewSyncWorker(repo, ledgerClient, cfg.SyncBatchSize)

		// Catch rows whose messages were lost while the worker was down.
		logger.Info("Performing startup sync check")
		if err := syncWorker.StartupSyncCheck(ctx); err != nil {
			logger.Error("Startup sync check failed", log.FieldError, err)
		}

		go func() {
			handler := func(msg *amqp.SyncMessage) error {
				return syncWorker.HandleSyncMessage(ctx, msg)
			}
			if err := amqpClient.ConsumeSync(ctx, handler); err != nil {
				if err != context.Canceled {
					logger.Error("Message consumption failed", log.FieldError, err)
				}
				cancel()
			}
		}()

		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := syncWorker.ProcessPending(ctx); err != nil {
						logger.Error("Periodic sync failed", log.FieldError, err)
					}
				}
			}
		}()
	} else {
		logger.Info("Skipping sync operations, no ledger available")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker")
	cancel()

	// Give in-flight ledger writes a moment to finish.
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
