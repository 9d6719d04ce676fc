// Package api holds the JSON helpers shared by all HTTP handlers. The error
// envelope and the kind-to-status mapping live here and nowhere else.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/mkhalid/tasklist/internal/apperr"
)

type errorBody struct {
	Code    apperr.Kind `json:"code"`
	Message string      `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// WriteError maps a service error to the wire envelope. Internal faults are
// logged with their cause but surfaced generically.
func WriteError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	message := err.Error()
	if kind == apperr.KindInternal {
		log.Printf("internal error: %v", err)
		message = "Internal server error"
	}
	WriteJSON(w, kind.HTTPStatus(), errorEnvelope{Error: errorBody{Code: kind, Message: message}})
}

// DecodeJSON decodes a request body, reporting malformed JSON as a
// validation failure.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.KindValidationFailed, "Invalid request body", err)
	}
	return nil
}
