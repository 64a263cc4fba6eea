package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultStartDate is the first day included in the all-time page view total.
const DefaultStartDate = "2024-01-01"

// CredentialSource identifies which service-account credential strategy is active.
type CredentialSource string

const (
	// CredentialSourceInline reads the service-account key JSON from GA_SERVICE_ACCOUNT_JSON.
	CredentialSourceInline CredentialSource = "inline"
	// CredentialSourceFile reads the service-account key JSON from a file on disk.
	CredentialSourceFile CredentialSource = "file"
	// CredentialSourceNone means no credential material is configured.
	CredentialSourceNone CredentialSource = "none"
)

// AnalyticsConfig contains GA4 Data API configuration.
type AnalyticsConfig struct {
	// ServiceAccountJSON is the inline service-account key. It takes precedence over KeyFile.
	ServiceAccountJSON string `env:"GA_SERVICE_ACCOUNT_JSON"`

	// KeyFile is a path to a service-account key file on local disk.
	KeyFile string `env:"GA_KEY_FILE"`

	// ApplicationCredentials is the conventional Google variable, used when KeyFile is unset.
	ApplicationCredentials string `env:"GOOGLE_APPLICATION_CREDENTIALS"`

	// PropertyID is the GA4 property, either "123456" or "properties/123456".
	PropertyID string `env:"GA_PROPERTY_ID"`

	// StartDate is the first day of the reported range (YYYY-MM-DD).
	StartDate string `env:"GA_START_DATE" envDefault:"2024-01-01"`

	// TimeZone is the property's reporting time zone (IANA name). Cached totals
	// roll over at midnight in this zone.
	TimeZone string `env:"GA_PROPERTY_TIMEZONE" envDefault:"UTC"`

	// Endpoint overrides the Analytics Data API base URL. Empty uses the Google default.
	Endpoint string `env:"GA_API_ENDPOINT"`

	// ValidateOnStart resolves credentials before the HTTP server binds and
	// aborts startup on failure. When false, failures surface per request.
	ValidateOnStart bool `env:"GA_VALIDATE_ON_START" envDefault:"false"`
}

// Sanitize trims values and applies defaults.
func (a *AnalyticsConfig) Sanitize() {
	a.ServiceAccountJSON = strings.TrimSpace(a.ServiceAccountJSON)
	a.KeyFile = strings.TrimSpace(a.KeyFile)
	a.ApplicationCredentials = strings.TrimSpace(a.ApplicationCredentials)
	a.PropertyID = strings.TrimSpace(a.PropertyID)
	a.Endpoint = strings.TrimSpace(a.Endpoint)
	if a.StartDate = strings.TrimSpace(a.StartDate); a.StartDate == "" {
		a.StartDate = DefaultStartDate
	}
	if a.KeyFile == "" {
		a.KeyFile = a.ApplicationCredentials
	}
	if a.TimeZone = strings.TrimSpace(a.TimeZone); a.TimeZone == "" {
		a.TimeZone = "UTC"
	}
}

// Location loads the property's time zone.
func (a *AnalyticsConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(a.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid GA_PROPERTY_TIMEZONE %q: %w", a.TimeZone, err)
	}
	return loc, nil
}

// CredentialSource reports the active credential strategy.
// Inline JSON wins over a key file; the two are never combined.
func (a *AnalyticsConfig) CredentialSource() CredentialSource {
	switch {
	case strings.TrimSpace(a.ServiceAccountJSON) != "":
		return CredentialSourceInline
	case strings.TrimSpace(a.KeyFile) != "":
		return CredentialSourceFile
	default:
		return CredentialSourceNone
	}
}
