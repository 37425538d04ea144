// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// errorEnvelope is the uniform error body returned by every endpoint
type errorEnvelope struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// respondJSON writes the payload as a JSON response
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to encode response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondError writes the uniform error envelope
func respondError(w http.ResponseWriter, code int, message, detail string) {
	respondJSON(w, code, errorEnvelope{Error: message, Detail: detail})
}

// internalDetail exposes internal error text only in debug mode
func internalDetail(err error, debug bool) string {
	if debug && err != nil {
		return err.Error()
	}
	return "An error occurred"
}

// NotFound is the envelope-shaped fallback for unknown routes
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "Not found", "")
}

// MethodNotAllowed is the envelope-shaped fallback for unsupported
// methods on known routes
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
}

// parseFloatParam parses an optional float query parameter with
// inclusive bounds, returning the fallback when absent.
func parseFloatParam(raw string, fallback, min, max float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("must be a number between %v and %v", min, max)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("must be between %v and %v", min, max)
	}
	return value, nil
}

// parseIntParam parses an optional integer query parameter with
// inclusive bounds, returning the fallback when absent.
func parseIntParam(raw string, fallback, min, max int) (int, error) {
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("must be an integer between %d and %d", min, max)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("must be between %d and %d", min, max)
	}
	return value, nil
}
