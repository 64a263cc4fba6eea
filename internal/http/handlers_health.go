package httpx

import (
	"io"
	"net/http"
)

const (
	rootResponse   = `{"status":"Analytics backend running 🚀"}`
	healthResponse = `{"status":"ok"}`
)

// rootHandler reports that the process is up. It never touches credentials or the upstream API.
func rootHandler(w http.ResponseWriter, r *http.Request) {
	writeStatic(w, r, rootResponse)
}

// healthHandler returns a simple 200 OK status for readiness/liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeStatic(w, r, healthResponse)
}

func writeStatic(w http.ResponseWriter, r *http.Request, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, body); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}
