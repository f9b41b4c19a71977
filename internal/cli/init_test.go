package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilancio/internal/config"
	"bilancio/internal/report"
	"bilancio/internal/storage/jsonfile"
)

func TestSetupLoggerRespectsLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(&config.Config{LogLevel: "info", LogFormat: "json"}, &buf)

	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"component":"app"`)
}

func TestSetupLoggerFallsBackToWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(&config.Config{LogLevel: "loud", LogFormat: "text"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("CHART_MODE", "terminal")
	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, cfg.DataBackend)

	t.Setenv("CHART_MODE", "hologram")
	_, err = LoadAndValidateConfig()
	assert.ErrorContains(t, err, "invalid chart mode")
}

func TestInitBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.json")
	cfg := &config.Config{DataBackend: config.BackendJSON, DataFile: path}

	result, err := InitBackend(context.Background(), cfg, nil)
	require.NoError(t, err)
	store, ok := result.Backend.(*jsonfile.Store)
	require.True(t, ok)
	assert.Equal(t, path, store.Path())

	_, err = InitBackend(context.Background(), &config.Config{DataBackend: "sheets"}, nil)
	assert.Error(t, err)
}

func TestNewChartRenderer(t *testing.T) {
	var out bytes.Buffer
	base := config.Config{ChartFile: "chart.svg", ChartWidth: 20}

	tests := []struct {
		mode  string
		check func(t *testing.T, r report.ChartRenderer)
	}{
		{config.ChartTerminal, func(t *testing.T, r report.ChartRenderer) {
			tc, ok := r.(*report.TerminalChart)
			require.True(t, ok)
			assert.Equal(t, 20, tc.Width)
		}},
		{config.ChartSVG, func(t *testing.T, r report.ChartRenderer) {
			svg, ok := r.(*report.SVGChart)
			require.True(t, ok)
			assert.Equal(t, "chart.svg", svg.Path)
		}},
		{config.ChartBoth, func(t *testing.T, r report.ChartRenderer) {
			multi, ok := r.(report.MultiRenderer)
			require.True(t, ok)
			assert.Len(t, multi, 2)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := base
			cfg.ChartMode = tt.mode
			tt.check(t, NewChartRenderer(&cfg, &out))
		})
	}
}

func TestGracefulShutdown(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(&config.Config{LogLevel: "info", LogFormat: "text"}, &buf)

	got := make(chan os.Signal, 1)
	ctx, stop := GracefulShutdown(logger, func(sig os.Signal) { got <- sig })
	defer stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))

	select {
	case sig := <-got:
		assert.Equal(t, syscall.SIGTERM, sig)
	case <-time.After(5 * time.Second):
		t.Fatal("signal not delivered")
	}
	<-ctx.Done()
}

func TestGracefulShutdownStop(t *testing.T) {
	ctx, stop := GracefulShutdown(nil, nil)
	stop()
	<-ctx.Done()
}
