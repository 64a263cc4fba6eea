package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/target/pageviews-api/internal/domain/model"
	apperrors "github.com/target/pageviews-api/internal/errors"
	"github.com/target/pageviews-api/internal/observability/metrics"
	"github.com/target/pageviews-api/internal/observability/statsd"
	"github.com/target/pageviews-api/internal/ports"
)

const (
	cacheKeyPrefix      = "pageviews:total"
	defaultFetchTimeout = 30 * time.Second
)

// PageViewServiceOptions groups dependencies for PageViewService.
type PageViewServiceOptions struct {
	Runner ports.ReportRunner    // Required
	Cache  ports.CacheRepository // Optional: nil disables caching
	Config PageViewServiceConfig
}

// PageViewServiceConfig holds query settings and ambient dependencies.
type PageViewServiceConfig struct {
	PropertyID string
	StartDate  string

	// CacheTTL is how long a total stays cached. Ignored without a cache.
	CacheTTL time.Duration

	// FetchTimeout bounds a single upstream report call shared by coalesced callers.
	FetchTimeout time.Duration

	// Location is the property's reporting time zone, where "today" ends. Defaults to UTC.
	Location *time.Location

	Logger  *slog.Logger
	Metrics statsd.Sink
	Now     func() time.Time
}

// PageViewService answers total page view lookups.
type PageViewService struct {
	runner ports.ReportRunner
	cache  ports.CacheRepository
	cfg    PageViewServiceConfig
	logger *slog.Logger
	group  singleflight.Group
}

// NewPageViewService constructs a PageViewService. It panics if Runner is nil.
func NewPageViewService(opts PageViewServiceOptions) *PageViewService {
	if opts.Runner == nil {
		panic("NewPageViewService: Runner is required")
	}

	cfg := opts.Config
	if cfg.StartDate == "" {
		cfg.StartDate = "2024-01-01"
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.Metrics == nil {
		cfg.Metrics = statsd.Discard
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cache := opts.Cache
	if cfg.CacheTTL <= 0 {
		cache = nil
	}

	return &PageViewService{
		runner: opts.Runner,
		cache:  cache,
		cfg:    cfg,
		logger: logger.With("component", "pageview_service"),
	}
}

// TotalPageViews returns the screenPageViews total from the start date through today.
func (s *PageViewService) TotalPageViews(ctx context.Context) (model.ViewCountResult, error) {
	start := s.cfg.Now()

	query, err := model.NewTotalPageViewsQuery(s.cfg.PropertyID, s.cfg.StartDate)
	if err != nil {
		s.emit(metrics.SourceAPI, start, model.ViewCountResult{}, err)
		return model.ViewCountResult{}, err
	}

	key := s.cacheKey(query, start)
	if res, ok := s.cached(ctx, key); ok {
		s.emit(metrics.SourceCache, start, res, nil)
		return res, nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		// Detached from the first caller so its cancellation does not fail the others.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.FetchTimeout)
		defer cancel()
		return s.fetch(fetchCtx, key, query)
	})

	select {
	case <-ctx.Done():
		return model.ViewCountResult{}, apperrors.FromContext(ctx.Err(), apperrors.ErrCodeInternal, "total page views")
	case r := <-ch:
		if r.Err != nil {
			return model.ViewCountResult{}, r.Err
		}
		return r.Val.(model.ViewCountResult), nil
	}
}

func (s *PageViewService) fetch(ctx context.Context, key string, query model.ReportQuery) (model.ViewCountResult, error) {
	start := s.cfg.Now()

	report, err := s.runner.RunReport(ctx, query)
	if err != nil {
		s.emit(metrics.SourceAPI, start, model.ViewCountResult{}, err)
		return model.ViewCountResult{}, fmt.Errorf("run report: %w", err)
	}

	res, err := model.TotalFromReport(report)
	if err != nil {
		s.emit(metrics.SourceAPI, start, model.ViewCountResult{}, err)
		return model.ViewCountResult{}, fmt.Errorf("extract total: %w", err)
	}
	s.emit(metrics.SourceAPI, start, res, nil)

	s.store(ctx, key, res)
	return res, nil
}

func (s *PageViewService) cached(ctx context.Context, key string) (model.ViewCountResult, bool) {
	if s.cache == nil {
		return model.ViewCountResult{}, false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "report cache read failed", "key", key, "error", err)
		return model.ViewCountResult{}, false
	}
	if raw == nil {
		return model.ViewCountResult{}, false
	}

	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || n < 0 {
		s.logger.WarnContext(ctx, "ignoring invalid cached total", "key", key, "value", string(raw))
		return model.ViewCountResult{}, false
	}

	s.logger.DebugContext(ctx, "total page views served from cache", "key", key)
	return model.ViewCountResult{TotalPageViews: n}, true
}

func (s *PageViewService) store(ctx context.Context, key string, res model.ViewCountResult) {
	if s.cache == nil {
		return
	}
	value := []byte(strconv.FormatInt(res.TotalPageViews, 10))
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.WarnContext(ctx, "report cache write failed", "key", key, "error", err)
	}
}

// cacheKey scopes cached totals to the property's calendar day so a total
// is never served past the property's midnight.
func (s *PageViewService) cacheKey(q model.ReportQuery, now time.Time) string {
	day := now.In(s.cfg.Location).Format(time.DateOnly)
	return fmt.Sprintf("%s:%s:%s:%s", cacheKeyPrefix, q.Property, q.StartDate, day)
}

func (s *PageViewService) emit(source string, start time.Time, res model.ViewCountResult, err error) {
	in := metrics.ReportFetch{
		Source:   source,
		Result:   metrics.ResultSuccess,
		Duration: s.cfg.Now().Sub(start),
		Total:    res.TotalPageViews,
		Err:      err,
	}
	if err != nil {
		in.Result = metrics.ResultError
	}
	metrics.EmitReportFetch(s.cfg.Metrics, in)
}
