package main

import (
	"context"
	"errors"
	"os"

	"github.com/shopspring/decimal"

	"bilancio/internal/cli"
	"bilancio/internal/log"
	"bilancio/internal/services"
	"bilancio/internal/shell"
	"bilancio/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeConfiguration)
		return 1
	}

	logger := cli.SetupLogger(cfg)

	// Every mutation is already on disk, so an interrupt can leave at once.
	ctx, stop := cli.GracefulShutdown(logger, func(os.Signal) {
		os.Stdout.WriteString("\n")
		os.Exit(cli.ExitInterrupted)
	})
	defer stop()

	result, err := cli.InitBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", log.FieldBackend, cfg.DataBackend, log.FieldError, err)
		return 1
	}

	svc, err := services.NewLedgerService(ctx, result.Backend, services.Options{
		StartFresh: cfg.StartFresh,
		AlertRatio: decimal.NewFromFloat(cfg.BudgetAlertRatio),
		Logger:     logger,
	})
	if err != nil {
		errType := log.ErrorTypeStorage
		if errors.Is(err, storage.ErrCorruptLedger) {
			errType = log.ErrorTypeCorrupt
		}
		logger.Error("Failed to load ledger",
			log.FieldBackend, cfg.DataBackend,
			log.FieldError, err,
			log.FieldErrorType, errType)
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
		return 1
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("Failed to close ledger store", log.FieldError, err)
		}
	}()

	logger.Info("Starting bilancio",
		log.FieldOperation, log.OpStartup,
		log.FieldBackend, cfg.DataBackend,
		"chart_mode", cfg.ChartMode)

	sh := shell.New(os.Stdin, os.Stdout, svc, shell.Options{
		Renderer:   cli.NewChartRenderer(cfg, os.Stdout),
		DateLayout: cfg.DateLayout,
		Currency:   cfg.CurrencySymbol,
		Logger:     logger,
	})
	if err := sh.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return cli.ExitInterrupted
		}
		logger.Error("Shell stopped", log.FieldError, err)
		return 1
	}
	return 0
}
