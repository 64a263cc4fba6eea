package main

import (
	"context"
	"log/slog"
	"os"
	_ "time/tzdata" // GA_PROPERTY_TIMEZONE must resolve without system zoneinfo.

	"github.com/target/pageviews-api/config"
	"github.com/target/pageviews-api/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger(bootstrap.LoggerConfig{Level: slog.LevelInfo})
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	// Re-initialize with the configured level and format.
	logger = bootstrap.InitLogger(bootstrap.LoggerConfigFrom(&cfg))
	logStartupInfo(ctx, logger, &cfg)

	return bootstrap.Run(ctx, bootstrap.RunConfig{Config: &cfg, Logger: logger})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting pageviews service",
		"addr", cfg.HTTP.Address(),
		"property_configured", cfg.Analytics.PropertyID != "",
		"credential_source", cfg.Analytics.CredentialSource(),
		"start_date", cfg.Analytics.StartDate,
		"report_cache", cfg.IsReportCacheEnabled(),
		"validate_on_start", cfg.Analytics.ValidateOnStart,
	)
}
