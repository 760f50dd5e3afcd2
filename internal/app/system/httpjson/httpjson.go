// Package httpjson holds the request/response helpers shared by the JSON
// API handlers. Error rendering is centralized here so every feature
// reports the same envelope: {"error": "..."} with an appropriate status.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodyBytes caps request bodies. Assignment previews can post back a
// few hundred assignments; 1 MiB is plenty.
const MaxBodyBytes = 1 << 20

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the uniform error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// Error writes the error envelope with the given status and message.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, errorBody{Error: msg})
}

// BadRequest writes a 400 with the message.
func BadRequest(w http.ResponseWriter, msg string) {
	Error(w, http.StatusBadRequest, msg)
}

// NotFound writes a 404 with the message.
func NotFound(w http.ResponseWriter, msg string) {
	Error(w, http.StatusNotFound, msg)
}

// Conflict writes a 409 with the message.
func Conflict(w http.ResponseWriter, msg string) {
	Error(w, http.StatusConflict, msg)
}

// ServerError writes a generic 500. The real cause goes to the logs, not
// the client.
func ServerError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "An internal error occurred.")
}

// Decode reads the request body into v, rejecting unknown fields and
// oversized bodies. Returns a client-facing message on failure.
func Decode(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("request body is not valid JSON for this endpoint")
	}
	// Trailing garbage after the JSON document is a malformed request.
	if dec.More() {
		return errors.New("request body contains more than one JSON document")
	}
	return nil
}
