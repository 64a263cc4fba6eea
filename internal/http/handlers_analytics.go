package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/target/pageviews-api/internal/domain/model"
	obserrors "github.com/target/pageviews-api/internal/observability/errors"
)

// fetchFailedMessage is the only failure body callers ever see.
const fetchFailedMessage = "Failed to fetch analytics data"

// PageViewsService is the subset of the page view service used by the HTTP layer.
type PageViewsService interface {
	TotalPageViews(ctx context.Context) (model.ViewCountResult, error)
}

// AnalyticsHandlers serves analytics endpoints.
type AnalyticsHandlers struct {
	Svc    PageViewsService
	Logger *slog.Logger
}

// TotalPageViews handles GET /api/analytics/total-page-views.
func (h *AnalyticsHandlers) TotalPageViews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.Svc.TotalPageViews(ctx)
	if err != nil {
		h.logger().ErrorContext(ctx, "failed to fetch analytics data",
			slog.String("error", err.Error()),
			slog.String("error_class", obserrors.Classify(err)),
			slog.String("request_id", RequestIDFromContext(ctx)),
		)
		WriteError(w, http.StatusInternalServerError, fetchFailedMessage)
		return
	}

	WriteJSON(w, http.StatusOK, res)
}

func (h *AnalyticsHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
