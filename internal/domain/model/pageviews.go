package model

import (
	"math"
	"strconv"
	"strings"

	apperrors "github.com/target/pageviews-api/internal/errors"
)

const (
	// MetricScreenPageViews is the GA4 metric counting page and screen views.
	MetricScreenPageViews = "screenPageViews"
	// EndDateToday is the GA4 relative date keyword resolved by the provider to the current date.
	EndDateToday = "today"
	// propertyPrefix is the resource prefix GA4 expects in front of a numeric property id.
	propertyPrefix = "properties/"
)

// ViewCountResult is the response body of the total page views endpoint.
type ViewCountResult struct {
	TotalPageViews int64 `json:"totalPageViews"`
}

// ReportQuery describes a single-metric report over one date range.
type ReportQuery struct {
	Property  string
	StartDate string
	EndDate   string
	Metric    string
}

// ReportRow holds the metric values of one report row, in request order.
type ReportRow struct {
	MetricValues []string
}

// ReportResult is the provider-agnostic shape of a report response.
type ReportResult struct {
	Rows []ReportRow
}

// PropertyName normalises a property identifier to the "properties/<id>" resource form.
// Both "123456" and "properties/123456" are accepted.
func PropertyName(id string) (string, error) {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, propertyPrefix)
	if id == "" {
		return "", apperrors.Configuration("analytics property id is required")
	}
	if strings.ContainsAny(id, "/ ") {
		return "", apperrors.Configurationf("invalid analytics property id %q", id)
	}
	return propertyPrefix + id, nil
}

// NewTotalPageViewsQuery builds the all-time page view query for a property.
func NewTotalPageViewsQuery(propertyID, startDate string) (ReportQuery, error) {
	property, err := PropertyName(propertyID)
	if err != nil {
		return ReportQuery{}, err
	}
	return ReportQuery{
		Property:  property,
		StartDate: startDate,
		EndDate:   EndDateToday,
		Metric:    MetricScreenPageViews,
	}, nil
}

// TotalFromReport extracts the first metric value of the first row.
// A report without rows, or a first row without metric values, yields 0.
func TotalFromReport(result ReportResult) (ViewCountResult, error) {
	if len(result.Rows) == 0 || len(result.Rows[0].MetricValues) == 0 {
		return ViewCountResult{}, nil
	}

	n, err := ParseMetricValue(result.Rows[0].MetricValues[0])
	if err != nil {
		return ViewCountResult{}, err
	}
	return ViewCountResult{TotalPageViews: n}, nil
}

// ParseMetricValue parses a GA4 metric value string as a non-negative integer.
// An empty value is treated as 0. Integral float notation such as "12.0" is accepted.
func ParseMetricValue(raw string) (int64, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, nil
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || f >= math.MaxInt64 {
			return 0, apperrors.Malformedf("metric value %q is not an integer", raw)
		}
		n = int64(f)
	}

	if n < 0 {
		return 0, apperrors.Malformedf("metric value %q is negative", raw)
	}
	return n, nil
}
