package httpx

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/target/pageviews-api/internal/domain/model"
	"github.com/target/pageviews-api/internal/mocks"
	"github.com/target/pageviews-api/internal/service"
)

// newServiceWithMock wires a real PageViewService to a mocked report runner.
func newServiceWithMock(t *testing.T) (*service.PageViewService, *mocks.MockReportRunner) {
	t.Helper()
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockReportRunner(ctrl)
	svc := service.NewPageViewService(service.PageViewServiceOptions{
		Runner: runner,
		Config: service.PageViewServiceConfig{
			PropertyID:   "123456",
			StartDate:    "2024-01-01",
			FetchTimeout: 5 * time.Second,
			Logger:       discardLogger(),
		},
	})
	return svc, runner
}

func reportOf(values ...string) model.ReportResult {
	return model.ReportResult{Rows: []model.ReportRow{{MetricValues: values}}}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func bufferLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewJSONHandler(buf, nil)), buf
}

type panicService struct{}

func (panicService) TotalPageViews(context.Context) (model.ViewCountResult, error) {
	panic("boom")
}
