// Package cli provides the startup helpers cmd/bilancio wires together:
// environment, configuration, logging, storage, chart output and signal
// handling.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"bilancio/internal/backend"
	"bilancio/internal/config"
	"bilancio/internal/log"
	"bilancio/internal/report"
)

// ExitInterrupted is the exit status after SIGINT or SIGTERM.
const ExitInterrupted = 130

// SetupLogger builds the application logger from cfg and makes it the
// slog default. Output goes to stderr.
func SetupLogger(cfg *config.Config) *log.Logger {
	return setupLogger(cfg, os.Stderr)
}

func setupLogger(cfg *config.Config, out io.Writer) *log.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelWarn
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitBackend opens the store selected by DATA_BACKEND.
func InitBackend(ctx context.Context, cfg *config.Config, logger *log.Logger) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("initialize %s backend: %w", bcfg.Type, err)
	}
	return result, nil
}

// NewChartRenderer returns the renderer for CHART_MODE. Terminal output and
// SVG notices go to out.
func NewChartRenderer(cfg *config.Config, out io.Writer) report.ChartRenderer {
	terminal := report.NewTerminalChart(out, cfg.ChartWidth)
	svg := report.NewSVGChart(cfg.ChartFile, out)

	switch cfg.ChartMode {
	case config.ChartSVG:
		return svg
	case config.ChartBoth:
		return report.MultiRenderer{terminal, svg}
	default:
		return terminal
	}
}

// GracefulShutdown calls onSignal once SIGINT or SIGTERM arrives and
// cancels the returned context. The stop function releases the signal
// handler.
func GracefulShutdown(logger *log.Logger, onSignal func(os.Signal)) (context.Context, func()) {
	if logger == nil {
		logger = log.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)
			cancel()
			if onSignal != nil {
				onSignal(sig)
			}
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
