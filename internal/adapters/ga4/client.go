package ga4

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/target/pageviews-api/internal/domain/model"
	apperrors "github.com/target/pageviews-api/internal/errors"
	"github.com/target/pageviews-api/internal/ports"
	"golang.org/x/oauth2"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

var _ ports.ReportRunner = (*Client)(nil)

// DefaultHTTPTimeout bounds each token exchange and API call when no HTTPClient is supplied.
const DefaultHTTPTimeout = 30 * time.Second

// ClientConfig holds configuration for the GA4 report client.
type ClientConfig struct {
	Credentials CredentialsConfig
	// Endpoint overrides the Analytics Data API base URL (optional).
	Endpoint string
	// HTTPClient is the base client for token and API calls. Optional, defaults to a
	// client with a Timeout of HTTPTimeout.
	HTTPClient *http.Client
	// HTTPTimeout applies to the default HTTPClient only (optional, defaults to DefaultHTTPTimeout).
	HTTPTimeout time.Duration
	Logger     *slog.Logger
}

// Client runs GA4 reports with a service-account identity.
// Credentials are resolved on first use and then shared by all requests; a
// failed resolution is retried on the next call. It is safe for concurrent use.
type Client struct {
	cfg    ClientConfig
	logger *slog.Logger

	mu    sync.Mutex
	state *clientState
}

type clientState struct {
	creds *Credentials
	svc   *analyticsdata.Service
}

// NewClient creates a client. No credentials are read until the first report or Validate call.
func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.HTTPClient == nil {
		timeout := cfg.HTTPTimeout
		if timeout <= 0 {
			timeout = DefaultHTTPTimeout
		}
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &Client{cfg: cfg, logger: logger}
}

// Validate resolves credentials and constructs the API service without issuing a report.
func (c *Client) Validate(ctx context.Context) error {
	_, err := c.ensure(ctx)
	return err
}

// RunReport acquires an access token and issues a single report query.
func (c *Client) RunReport(ctx context.Context, q model.ReportQuery) (model.ReportResult, error) {
	st, err := c.ensure(ctx)
	if err != nil {
		return model.ReportResult{}, err
	}

	// Token acquisition is explicit so authorization failures are reported as
	// such rather than as transport errors. The token source reuses an
	// unexpired token and only hits the token endpoint when needed.
	if err = acquireToken(ctx, st.creds.TokenSource); err != nil {
		return model.ReportResult{}, err
	}

	req := &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{{StartDate: q.StartDate, EndDate: q.EndDate}},
		Metrics:    []*analyticsdata.Metric{{Name: q.Metric}},
	}

	resp, err := st.svc.Properties.RunReport(q.Property, req).Context(ctx).Do()
	if err != nil {
		return model.ReportResult{}, mapAPIError(err)
	}

	return toReportResult(resp), nil
}

func (c *Client) ensure(ctx context.Context) (*clientState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != nil {
		return c.state, nil
	}

	// The token source outlives this request, so it gets a background context
	// carrying only the configured HTTP client. The client's Timeout bounds each exchange.
	baseCtx := context.WithValue(context.Background(), oauth2.HTTPClient, c.cfg.HTTPClient)

	creds, err := ResolveCredentials(baseCtx, c.cfg.Credentials)
	if err != nil {
		return nil, err
	}

	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(baseCtx, creds.TokenSource))}
	if c.cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.cfg.Endpoint))
	}

	svc, err := analyticsdata.NewService(ctx, opts...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "create analytics data service")
	}

	c.logger.InfoContext(ctx, "analytics credentials resolved",
		"source", creds.Source,
		"client_email", creds.ClientEmail,
	)

	c.state = &clientState{creds: creds, svc: svc}
	return c.state, nil
}

// acquireToken fetches a token but stops waiting when ctx is done. The token
// source has no context of its own; an abandoned exchange still ends at the
// HTTP client's Timeout.
func acquireToken(ctx context.Context, ts oauth2.TokenSource) error {
	done := make(chan error, 1)
	go func() {
		_, err := ts.Token()
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeCredentials, "acquire access token")
		}
		return nil
	case <-ctx.Done():
		return apperrors.FromContext(ctx.Err(), apperrors.ErrCodeCredentials, "acquire access token")
	}
}

func mapAPIError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return apperrors.Upstream(err, gerr.Code, "run report")
	}
	return apperrors.FromContext(err, apperrors.ErrCodeUpstream, "run report")
}

func toReportResult(resp *analyticsdata.RunReportResponse) model.ReportResult {
	if resp == nil || len(resp.Rows) == 0 {
		return model.ReportResult{}
	}

	rows := make([]model.ReportRow, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		var row model.ReportRow
		if r != nil {
			row.MetricValues = make([]string, 0, len(r.MetricValues))
			for _, mv := range r.MetricValues {
				if mv == nil {
					row.MetricValues = append(row.MetricValues, "")
					continue
				}
				row.MetricValues = append(row.MetricValues, mv.Value)
			}
		}
		rows = append(rows, row)
	}
	return model.ReportResult{Rows: rows}
}
