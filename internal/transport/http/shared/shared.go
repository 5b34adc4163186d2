// Package shared centralizes JSON response writing so every handler produces
// the same envelopes.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "taskshare/pkg/domain-errors"
)

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the `{"error": message}` envelope.
// Non-domain errors collapse to a generic 500; detailed causes are logged at
// the call site, never returned to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, dErrors.ToHTTPStatus(code), map[string]string{
		"error": dErrors.Message(err),
	})
}
