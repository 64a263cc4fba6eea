package ga4

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
)

const (
	testAccessToken = "test-access-token"
	testClientEmail = "reporter@test-project.iam.gserviceaccount.com"
)

var (
	testKeyOnce sync.Once
	testKeyPEM  string
	errTestKey  error
)

// testPrivateKeyPEM returns a PKCS#1 RSA key shared by all tests in the package.
func testPrivateKeyPEM(t *testing.T) string {
	t.Helper()
	testKeyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			errTestKey = err
			return
		}
		testKeyPEM = string(pem.EncodeToMemory(&pem.Block{
			Type:  "RSA PRIVATE KEY",
			Bytes: x509.MarshalPKCS1PrivateKey(key),
		}))
	})
	if errTestKey != nil {
		t.Fatalf("generate rsa key: %v", errTestKey)
	}
	return testKeyPEM
}

// serviceAccountJSON builds a service-account key whose token_uri points at tokenURL.
func serviceAccountJSON(t *testing.T, tokenURL string) string {
	t.Helper()
	b, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     "test-project",
		"private_key_id": "test-key-id",
		"private_key":    testPrivateKeyPEM(t),
		"client_email":   testClientEmail,
		"client_id":      "1234567890",
		"token_uri":      tokenURL,
	})
	if err != nil {
		t.Fatalf("marshal service account: %v", err)
	}
	return string(b)
}

// fakeGoogle emulates the OAuth2 token endpoint and the Analytics Data API runReport method.
type fakeGoogle struct {
	server *httptest.Server

	tokenCalls  atomic.Int32
	reportCalls atomic.Int32

	mu          sync.Mutex
	tokenStatus int
	reportCode  int
	reportBody  string
	lastPath    string
	lastAuth    string
	lastRequest analyticsdata.RunReportRequest
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	t.Helper()
	f := &fakeGoogle{
		tokenStatus: http.StatusOK,
		reportCode:  http.StatusOK,
		reportBody:  `{"rows":[{"metricValues":[{"value":"4213"}]}],"rowCount":1}`,
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGoogle) tokenURL() string { return f.server.URL + "/token" }

func (f *fakeGoogle) endpoint() string { return f.server.URL + "/" }

func (f *fakeGoogle) setReport(code int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reportCode = code
	f.reportBody = body
}

func (f *fakeGoogle) setTokenStatus(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenStatus = code
}

func (f *fakeGoogle) serveHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/token":
		f.serveToken(w, r)
	case strings.HasPrefix(r.URL.Path, "/v1beta/") && strings.HasSuffix(r.URL.Path, ":runReport"):
		f.serveReport(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeGoogle) serveToken(w http.ResponseWriter, r *http.Request) {
	f.tokenCalls.Add(1)
	_ = r.ParseForm()

	f.mu.Lock()
	status := f.tokenStatus
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"account disabled"}`)
		return
	}
	if r.PostForm.Get("grant_type") != "urn:ietf:params:oauth:grant-type:jwt-bearer" || r.PostForm.Get("assertion") == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"invalid_request"}`)
		return
	}
	_, _ = io.WriteString(w, `{"access_token":"`+testAccessToken+`","token_type":"Bearer","expires_in":3600}`)
}

func (f *fakeGoogle) serveReport(w http.ResponseWriter, r *http.Request) {
	f.reportCalls.Add(1)

	var req analyticsdata.RunReportRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.lastPath = r.URL.Path
	f.lastAuth = r.Header.Get("Authorization")
	f.lastRequest = req
	code, body := f.reportCode, f.reportBody
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}

func quoteJSON(t *testing.T, s string) string {
	t.Helper()
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal string: %v", err)
	}
	return string(b)
}
