// Package ga4 adapts the Google Analytics Data API (GA4) to the ReportRunner port.
package ga4

import (
	"context"
	"fmt"
	"os"

	"github.com/target/pageviews-api/config"
	apperrors "github.com/target/pageviews-api/internal/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
)

// AnalyticsReadonlyScope is the only OAuth2 scope requested for report queries.
const AnalyticsReadonlyScope = analyticsdata.AnalyticsReadonlyScope

// CredentialsConfig selects the service-account key material.
type CredentialsConfig struct {
	// ServiceAccountJSON is an inline key. When set it is used exclusively.
	ServiceAccountJSON string
	// KeyFile is a path to a key file, used only when ServiceAccountJSON is empty.
	KeyFile string
}

// Source reports which strategy the configuration selects.
func (c CredentialsConfig) Source() config.CredentialSource {
	cfg := config.AnalyticsConfig{ServiceAccountJSON: c.ServiceAccountJSON, KeyFile: c.KeyFile}
	return cfg.CredentialSource()
}

// Credentials is a resolved service-account identity with a token source for the analytics scope.
type Credentials struct {
	Source      config.CredentialSource
	ClientEmail string
	TokenSource oauth2.TokenSource
}

// ResolveCredentials loads the service-account key selected by cfg and builds a
// token source for the read-only analytics scope. The context supplies the
// HTTP client used for token exchanges (see oauth2.HTTPClient) and must outlive
// the returned token source.
func ResolveCredentials(ctx context.Context, cfg CredentialsConfig) (*Credentials, error) {
	source := cfg.Source()

	var key []byte
	switch source {
	case config.CredentialSourceInline:
		key = []byte(cfg.ServiceAccountJSON)
	case config.CredentialSourceFile:
		b, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeCredentials, "read service account key file")
		}
		key = b
	default:
		return nil, apperrors.Credentials(
			"no service account credentials configured (set GA_SERVICE_ACCOUNT_JSON or GA_KEY_FILE)",
		)
	}

	jwtCfg, err := google.JWTConfigFromJSON(key, AnalyticsReadonlyScope)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCredentials,
			fmt.Sprintf("parse %s service account key", source))
	}

	return &Credentials{
		Source:      source,
		ClientEmail: jwtCfg.Email,
		TokenSource: jwtCfg.TokenSource(ctx),
	}, nil
}
