package ports

// Package ports defines interfaces (hexagonal ports) for analytics reporting.
// Implementations live in internal/adapters and internal/data; orchestration in internal/service.

import (
	"context"
	"time"

	"github.com/target/pageviews-api/internal/domain/model"
)

// ReportRunner executes a single report query against an analytics provider.
type ReportRunner interface {
	// RunReport authorizes and issues the query, returning the raw rows.
	RunReport(ctx context.Context, q model.ReportQuery) (model.ReportResult, error)
}

// CacheRepository stores report totals between requests.
type CacheRepository interface {
	// Get returns nil, nil when the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}
