package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/target/pageviews-api/config"
	"github.com/target/pageviews-api/internal/adapters/ga4"
	"github.com/target/pageviews-api/internal/data"
	"github.com/target/pageviews-api/internal/domain/model"
	"github.com/target/pageviews-api/internal/observability/statsd"
	"github.com/target/pageviews-api/internal/ports"
	"github.com/target/pageviews-api/internal/service"
)

// ServiceContainer holds the wired application services.
type ServiceContainer struct {
	PageViews *service.PageViewService
	Analytics *ga4.Client
	Metrics   *statsd.Client

	redisClient redis.UniversalClient
	logger      *slog.Logger
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger
	// HTTPClient is used for token and report calls (optional).
	HTTPClient *http.Client
}

// NewServices builds the analytics client, the optional report cache and the page view service.
// A failed Redis connection disables the cache instead of failing startup.
func NewServices(ctx context.Context, deps ServiceDeps) (*ServiceContainer, error) {
	if deps.Config == nil {
		return nil, errors.New("service config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loc, err := cfg.Analytics.Location()
	if err != nil {
		return nil, err
	}

	sc := &ServiceContainer{logger: logger}

	metricsSink, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.Metrics.IsEnabled(),
		Address: cfg.Observability.Metrics.StatsdAddress,
		Prefix:  cfg.Observability.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to initialise statsd client", "error", err)
		metricsSink, _ = statsd.NewClient(statsd.Config{Logger: logger})
	}
	sc.Metrics = metricsSink

	sc.Analytics = ga4.NewClient(ga4.ClientConfig{
		Credentials: ga4.CredentialsConfig{
			ServiceAccountJSON: cfg.Analytics.ServiceAccountJSON,
			KeyFile:            cfg.Analytics.KeyFile,
		},
		Endpoint:   cfg.Analytics.Endpoint,
		HTTPClient: deps.HTTPClient,
		Logger:     logger.With("component", "ga4"),
	})

	var cache ports.CacheRepository
	if cfg.IsReportCacheEnabled() {
		client, redisErr := ConnectRedis(ctx, RedisConnectConfig{Redis: cfg.Redis, Logger: logger})
		if redisErr != nil {
			logger.WarnContext(ctx, "report cache disabled", "error", redisErr)
		} else {
			sc.redisClient = client
			cache = data.NewRedisCacheRepo(client)
		}
	}

	sc.PageViews = service.NewPageViewService(service.PageViewServiceOptions{
		Runner: sc.Analytics,
		Cache:  cache,
		Config: service.PageViewServiceConfig{
			PropertyID: cfg.Analytics.PropertyID,
			StartDate:  cfg.Analytics.StartDate,
			CacheTTL:   cfg.Cache.TTL,
			Location:   loc,
			Logger:     logger,
			Metrics:    metricsSink,
		},
	})

	return sc, nil
}

// ValidateAnalytics resolves credentials and checks the property id.
// It is used when startup validation is enabled.
func (sc *ServiceContainer) ValidateAnalytics(ctx context.Context, cfg *config.AppConfig) error {
	if _, err := model.PropertyName(cfg.Analytics.PropertyID); err != nil {
		return fmt.Errorf("validate analytics property: %w", err)
	}
	if err := sc.Analytics.Validate(ctx); err != nil {
		return fmt.Errorf("validate analytics credentials: %w", err)
	}
	return nil
}

// CacheEnabled reports whether a Redis report cache is connected.
func (sc *ServiceContainer) CacheEnabled() bool {
	return sc.redisClient != nil
}

// Close releases the Redis connection and the metrics socket.
func (sc *ServiceContainer) Close() error {
	var errs []error
	if sc.redisClient != nil {
		if err := sc.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := sc.Metrics.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close statsd: %w", err))
	}
	return errors.Join(errs...)
}
