package config

import (
	"strings"
	"time"
)

// RedisConfig contains Redis connection configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:""`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:""`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// Sanitize normalises Redis connection values.
func (r *RedisConfig) Sanitize() {
	r.URI = strings.TrimSpace(r.URI)
	r.SentinelNodes = trimNonEmpty(r.SentinelNodes)
	r.ClusterNodes = trimNonEmpty(r.ClusterNodes)
	if r.DB < 0 {
		r.DB = 0
	}
}

// IsConfigured reports whether any Redis topology has been configured.
func (r *RedisConfig) IsConfigured() bool {
	switch {
	case r.UseCluster:
		return len(r.ClusterNodes) > 0 || r.URI != ""
	case r.UseSentinel:
		return len(r.SentinelNodes) > 0
	default:
		return r.URI != ""
	}
}

// CacheConfig controls caching of report totals in Redis.
type CacheConfig struct {
	// Enabled turns on the Redis-backed report cache. Off by default, so every
	// request reaches the Analytics Data API.
	Enabled bool `env:"REPORT_CACHE_ENABLED" envDefault:"false"`

	// TTL is how long a cached total is served before the API is queried again.
	TTL time.Duration `env:"REPORT_CACHE_TTL" envDefault:"5m"`
}

// Sanitize applies guardrails to cache configuration values.
func (c *CacheConfig) Sanitize() {
	if c.TTL < time.Second {
		c.TTL = time.Second
	}
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
