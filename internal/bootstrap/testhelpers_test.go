package bootstrap

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeGoogle serves the OAuth2 token endpoint and the runReport method.
type fakeGoogle struct {
	server      *httptest.Server
	reportCalls atomic.Int32
	reportBody  string
}

func newFakeGoogle(t *testing.T, reportBody string) *fakeGoogle {
	t.Helper()
	f := &fakeGoogle{reportBody: reportBody}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/token":
			_, _ = io.WriteString(w, `{"access_token":"tok","token_type":"Bearer","expires_in":3600}`)
		case strings.HasSuffix(r.URL.Path, ":runReport"):
			f.reportCalls.Add(1)
			_, _ = io.WriteString(w, f.reportBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

// serviceAccountJSON builds a key whose token_uri points at the fake.
func (f *fakeGoogle) serviceAccountJSON(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	b, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     "test-project",
		"private_key_id": "kid",
		"private_key": string(pem.EncodeToMemory(&pem.Block{
			Type:  "RSA PRIVATE KEY",
			Bytes: x509.MarshalPKCS1PrivateKey(key),
		})),
		"client_email": "reporter@test-project.iam.gserviceaccount.com",
		"token_uri":    f.server.URL + "/token",
	})
	if err != nil {
		t.Fatalf("marshal service account: %v", err)
	}
	return string(b)
}
