package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/target/pageviews-api/config"
)

// LoggerConfig selects the log handler and level.
type LoggerConfig struct {
	Dev    bool
	Level  slog.Level
	Output io.Writer // Defaults to os.Stdout
}

// LoggerConfigFrom derives logger settings from the application config.
func LoggerConfigFrom(cfg *config.AppConfig) LoggerConfig {
	return LoggerConfig{Dev: cfg.IsDev, Level: cfg.Observability.LogLevel.Level()}
}

// InitLogger initializes the structured logger and installs it as the slog default.
// Production logs are JSON; dev mode uses the text handler.
func InitLogger(cfg LoggerConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler = slog.NewJSONHandler(out, opts)
	if cfg.Dev {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}
