package httpx

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/target/pageviews-api/internal/observability/statsd"
)

// TotalPageViewsPath is the analytics endpoint path.
const TotalPageViewsPath = "/api/analytics/total-page-views"

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	PageViews      PageViewsService
	Logger         *slog.Logger
	Metrics        statsd.Sink // Optional
	AllowedOrigins []string    // Defaults to "*"
}

// NewRouter builds the mux and wraps it with Recover, RequestID, Logging and CORS, outermost first.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	analytics := &AnalyticsHandlers{Svc: services.PageViews, Logger: logger}

	// GET patterns also match HEAD.
	mux.HandleFunc("GET /{$}", rootHandler)
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("GET "+TotalPageViewsPath, analytics.TotalPageViews)

	var handler http.Handler = &notFoundHandler{mux: mux}
	handler = CORS(services.AllowedOrigins)(handler)
	handler = Logging(logger, services.Metrics)(handler)
	handler = RequestID()(handler)
	handler = Recover(logger)(handler)
	return handler
}

// notFoundHandler wraps a ServeMux and renders its 404 and 405 replies as JSON.
type notFoundHandler struct {
	mux *http.ServeMux
}

// ServeHTTP implements http.Handler.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern == "" {
		cw := newCaptureWriter()
		h.mux.ServeHTTP(cw, r)
		switch cw.status {
		case http.StatusMethodNotAllowed:
			if allow := cw.header.Get("Allow"); allow != "" {
				w.Header().Set("Allow", allow)
			}
			WriteError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		default:
			WriteError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
		}
		return
	}

	h.mux.ServeHTTP(w, r)
}

// captureWriter buffers the mux's fallback reply so it can be replaced.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }
