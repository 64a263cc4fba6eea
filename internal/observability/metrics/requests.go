// Package metrics names and tags the metrics emitted by the page view service.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/target/pageviews-api/internal/observability/errors"
	"github.com/target/pageviews-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Source constants describe where a page view total came from.
const (
	SourceAPI   = "api"
	SourceCache = "cache"
)

// ReportFetch captures one total page views lookup.
type ReportFetch struct {
	Source   string
	Result   string
	Duration time.Duration
	Total    int64
	Err      error
}

// EmitReportFetch emits report lookup metrics.
func EmitReportFetch(sink statsd.Sink, in ReportFetch) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"source": in.Source,
		"result": in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("report.fetch", 1, tags)
	if in.Duration > 0 {
		sink.Timing("report.duration", in.Duration, CloneTags(tags))
	}
	if in.Result == ResultSuccess {
		sink.Gauge("report.total_page_views", float64(in.Total), nil)
	}
}

// HTTPRequest captures a served HTTP request.
type HTTPRequest struct {
	Route    string
	Method   string
	Status   int
	Duration time.Duration
}

// EmitHTTPRequest emits per-request counters and latency.
func EmitHTTPRequest(sink statsd.Sink, in HTTPRequest) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"route":  in.Route,
		"method": in.Method,
		"status": strconv.Itoa(in.Status),
	}
	sink.Count("http.request", 1, tags)
	sink.Timing("http.duration", in.Duration, CloneTags(tags))
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
