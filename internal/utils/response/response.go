// Package response provides helpers for writing HTTP responses with a
// consistent header/status/body order.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
package response

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON envelope used by the health endpoints.
//
//	{ "status": "error", "error": "storage unavailable" }
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Status string constants.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Terminal failure texts. They never include internal error detail.
const (
	MsgUnavailable = "Service unavailable: could not connect to the database."
	MsgReadFailed  = "Could not load records. Please try again later."

	// MsgStorageUnavailable is the /readyz error text; the driver error is
	// only logged.
	MsgStorageUnavailable = "storage unavailable"
)

// WriteJSON writes data as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteHTML writes an already rendered HTML document.
func WriteHTML(w http.ResponseWriter, status int, body []byte) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

// WriteTerminal aborts a page request with a plain-text failure message.
func WriteTerminal(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg + "\n"))
}
