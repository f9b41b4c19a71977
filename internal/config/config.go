package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Storage
	DataBackend  string
	DataFile     string
	SQLiteDBPath string
	StartFresh   bool

	// Entry and display
	DateLayout       string
	CurrencySymbol   string
	BudgetAlertRatio float64

	// Chart
	ChartMode  string
	ChartFile  string
	ChartWidth int

	// Logging
	LogLevel  string
	LogFormat string
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	ChartTerminal = "terminal"
	ChartSVG      = "svg"
	ChartBoth     = "both"
)

var (
	validBackends   = []string{BackendJSON, BackendSQLite, BackendMemory}
	validChartModes = []string{ChartTerminal, ChartSVG, ChartBoth}
	validLogFormats = []string{"text", "json"}
)

func Load() *Config {
	cfg := &Config{
		DataBackend:  getEnv("DATA_BACKEND", BackendJSON),
		DataFile:     getEnv("DATA_FILE", "expenses.json"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/bilancio.db"),
		StartFresh:   getEnvBool("START_FRESH", false),

		DateLayout:       getEnv("DATE_LAYOUT", "02-01-2006"),
		CurrencySymbol:   getEnv("CURRENCY_SYMBOL", "$"),
		BudgetAlertRatio: getEnvFloat("BUDGET_ALERT_RATIO", 0.9),

		ChartMode:  getEnv("CHART_MODE", ChartTerminal),
		ChartFile:  getEnv("CHART_FILE", "spending_report.svg"),
		ChartWidth: getEnvInt("CHART_WIDTH", 40),

		LogLevel:  getEnv("LOG_LEVEL", "warn"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendJSON:
		if strings.TrimSpace(c.DataFile) == "" {
			errors = append(errors, "data file cannot be empty when using json backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// A layout without any time verbs formats every date to the same text
	ref := time.Date(2006, time.January, 2, 15, 4, 5, 0, time.UTC)
	if c.DateLayout == "" {
		errors = append(errors, "date layout cannot be empty")
	} else if ref.AddDate(1, 1, 1).Format(c.DateLayout) == ref.Format(c.DateLayout) {
		errors = append(errors, fmt.Sprintf("invalid date layout '%s': must contain day, month or year fields", c.DateLayout))
	}

	if c.BudgetAlertRatio <= 0 || c.BudgetAlertRatio > 1 {
		errors = append(errors, fmt.Sprintf("invalid budget alert ratio %v: must be greater than 0 and at most 1", c.BudgetAlertRatio))
	}

	if !slices.Contains(validChartModes, c.ChartMode) {
		errors = append(errors, fmt.Sprintf("invalid chart mode '%s': must be one of %v", c.ChartMode, validChartModes))
	}
	if (c.ChartMode == ChartSVG || c.ChartMode == ChartBoth) && strings.TrimSpace(c.ChartFile) == "" {
		errors = append(errors, "chart file cannot be empty when chart mode writes SVG")
	}
	if c.ChartWidth < 10 || c.ChartWidth > 200 {
		errors = append(errors, fmt.Sprintf("invalid chart width %d: must be between 10 and 200", c.ChartWidth))
	}

	if _, err := c.SlogLevel(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': %v", c.LogLevel, err))
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validLogFormats))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
