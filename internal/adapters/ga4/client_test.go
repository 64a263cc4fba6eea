package ga4

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/pageviews-api/internal/domain/model"
	apperrors "github.com/target/pageviews-api/internal/errors"
)

func newTestClient(t *testing.T, fake *fakeGoogle) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		Credentials: CredentialsConfig{ServiceAccountJSON: serviceAccountJSON(t, fake.tokenURL())},
		Endpoint:    fake.endpoint(),
		HTTPClient:  &http.Client{Timeout: 5 * time.Second},
	})
}

func testQuery() model.ReportQuery {
	return model.ReportQuery{
		Property:  "properties/123456",
		StartDate: "2024-01-01",
		EndDate:   model.EndDateToday,
		Metric:    model.MetricScreenPageViews,
	}
}

func TestClient_RunReport(t *testing.T) {
	fake := newFakeGoogle(t)
	client := newTestClient(t, fake)

	result, err := client.RunReport(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Equal(t, model.ReportResult{Rows: []model.ReportRow{{MetricValues: []string{"4213"}}}}, result)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, "/v1beta/properties/123456:runReport", fake.lastPath)
	assert.Equal(t, "Bearer "+testAccessToken, fake.lastAuth)
	require.Len(t, fake.lastRequest.DateRanges, 1)
	assert.Equal(t, "2024-01-01", fake.lastRequest.DateRanges[0].StartDate)
	assert.Equal(t, "today", fake.lastRequest.DateRanges[0].EndDate)
	require.Len(t, fake.lastRequest.Metrics, 1)
	assert.Equal(t, "screenPageViews", fake.lastRequest.Metrics[0].Name)
	assert.Empty(t, fake.lastRequest.Dimensions)
}

func TestClient_RunReport_NoRows(t *testing.T) {
	fake := newFakeGoogle(t)
	fake.setReport(http.StatusOK, `{"metricHeaders":[{"name":"screenPageViews","type":"TYPE_INTEGER"}],"kind":"analyticsData#runReport"}`)
	client := newTestClient(t, fake)

	result, err := client.RunReport(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Empty(t, result.Rows)

	total, err := model.TotalFromReport(result)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total.TotalPageViews)
}

func TestClient_RunReport_UpstreamError(t *testing.T) {
	fake := newFakeGoogle(t)
	fake.setReport(http.StatusForbidden,
		`{"error":{"code":403,"message":"User does not have sufficient permissions for this property.","status":"PERMISSION_DENIED"}}`)
	client := newTestClient(t, fake)

	_, err := client.RunReport(context.Background(), testQuery())
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err), "expected upstream error, got %v", err)
	assert.Equal(t, http.StatusForbidden, apperrors.GetStatus(err))
}

func TestClient_RunReport_TokenFailure(t *testing.T) {
	fake := newFakeGoogle(t)
	fake.setTokenStatus(http.StatusBadRequest)
	client := newTestClient(t, fake)

	_, err := client.RunReport(context.Background(), testQuery())
	require.Error(t, err)
	assert.True(t, apperrors.IsCredentials(err), "expected credentials error, got %v", err)
	assert.Equal(t, int32(0), fake.reportCalls.Load(), "report must not be issued without a token")
}

func TestClient_RunReport_ReusesUnexpiredToken(t *testing.T) {
	fake := newFakeGoogle(t)
	client := newTestClient(t, fake)

	for range 3 {
		_, err := client.RunReport(context.Background(), testQuery())
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), fake.tokenCalls.Load())
	assert.Equal(t, int32(3), fake.reportCalls.Load())
}

func TestClient_RunReport_CanceledContext(t *testing.T) {
	fake := newFakeGoogle(t)
	client := newTestClient(t, fake)

	// Warm the token so cancellation hits the report call itself.
	require.NoError(t, client.Validate(context.Background()))
	_, err := client.RunReport(context.Background(), testQuery())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.RunReport(ctx, testQuery())
	require.Error(t, err)
	assert.True(t, apperrors.IsCanceled(err), "expected canceled error, got %v", err)
}

func TestClient_CredentialFailureIsPerRequest(t *testing.T) {
	client := NewClient(ClientConfig{
		Credentials: CredentialsConfig{ServiceAccountJSON: "{not json"},
	})

	for range 2 {
		_, err := client.RunReport(context.Background(), testQuery())
		require.Error(t, err)
		assert.True(t, apperrors.IsCredentials(err))
	}

	require.Error(t, client.Validate(context.Background()))
}

func TestClient_NewClientDoesNotResolveCredentials(t *testing.T) {
	fake := newFakeGoogle(t)
	_ = newTestClient(t, fake)

	assert.Equal(t, int32(0), fake.tokenCalls.Load())
	assert.Equal(t, int32(0), fake.reportCalls.Load())
}

func TestToReportResult(t *testing.T) {
	assert.Equal(t, model.ReportResult{}, toReportResult(nil))
}

func TestClient_RunReport_HangingTokenEndpointHonorsContext(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	// Runs before server.Close so the blocked handler can return.
	t.Cleanup(func() { close(release) })

	client := NewClient(ClientConfig{
		Credentials: CredentialsConfig{ServiceAccountJSON: serviceAccountJSON(t, server.URL+"/token")},
		Endpoint:    server.URL + "/",
		HTTPTimeout: 10 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.RunReport(ctx, testQuery())
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, apperrors.IsTimeout(err), "expected timeout error, got %v", err)
	assert.Less(t, elapsed, 2*time.Second, "token fetch should stop at the context deadline")
}

func TestClient_RunReport_DefaultHTTPClientTimesOut(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client := NewClient(ClientConfig{
		Credentials: CredentialsConfig{ServiceAccountJSON: serviceAccountJSON(t, server.URL+"/token")},
		Endpoint:    server.URL + "/",
		HTTPTimeout: 200 * time.Millisecond,
	})
	require.NotNil(t, client.cfg.HTTPClient)
	assert.Equal(t, 200*time.Millisecond, client.cfg.HTTPClient.Timeout)

	start := time.Now()
	_, err := client.RunReport(context.Background(), testQuery())
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, apperrors.IsCredentials(err), "expected credentials error, got %v", err)
	assert.Less(t, elapsed, 2*time.Second, "default client timeout should end the token exchange")
}

func TestNewClient_DefaultHTTPTimeout(t *testing.T) {
	client := NewClient(ClientConfig{})
	require.NotNil(t, client.cfg.HTTPClient)
	assert.Equal(t, DefaultHTTPTimeout, client.cfg.HTTPClient.Timeout)
}
