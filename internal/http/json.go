package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// errorResponse is the body of every JSON error this service writes.
type errorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// WriteError writes {"error": message} with the given status code.
func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, errorResponse{Error: message})
}
