package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"syscall"

	"github.com/target/pageviews-api/config"
)

// RunConfig groups what Run needs.
type RunConfig struct {
	Config *config.AppConfig
	Logger *slog.Logger
}

// Run wires services, binds the listener and serves until SIGINT or SIGTERM.
func Run(ctx context.Context, cfg RunConfig) error {
	if cfg.Config == nil {
		return errors.New("run config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := NewServices(ctx, ServiceDeps{Config: cfg.Config, Logger: logger})
	if err != nil {
		return fmt.Errorf("init services: %w", err)
	}
	defer func() {
		if cerr := services.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close services failed", "error", cerr)
		}
	}()

	if cfg.Config.Analytics.ValidateOnStart {
		if err = services.ValidateAnalytics(ctx, cfg.Config); err != nil {
			return err
		}
		logger.InfoContext(ctx, "analytics configuration validated")
	}

	server := NewHTTPServer(HTTPServerConfig{
		HTTP:     cfg.Config.HTTP,
		Services: services,
		Logger:   logger,
	})

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", server.Addr, err)
	}

	return ServeHTTP(ctx, ServeConfig{
		Server:          server,
		Listener:        ln,
		ShutdownTimeout: cfg.Config.HTTP.ShutdownTimeout,
		Logger:          logger,
	})
}
