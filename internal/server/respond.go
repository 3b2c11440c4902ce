package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hazelvane/melodex/internal/shared"
)

// errorResponse is the JSON body written for all error statuses.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps a pipeline or repository error to an HTTP status.
//
// Not-found and invalid-input surface as client errors; upstream failures
// and provider inconsistencies (batch misalignment, runaway pagination)
// surface as 502 since the fault lies beyond this service.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, shared.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrBatchLimitExceeded):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrNotAuthenticated),
		errors.Is(err, shared.ErrAuthFailed),
		errors.Is(err, shared.ErrTokenExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, shared.ErrAPIRequest),
		errors.Is(err, shared.ErrBatchSizeMismatch),
		errors.Is(err, shared.ErrPageLimitExceeded),
		errors.Is(err, shared.ErrRefreshFailed):
		status = http.StatusBadGateway
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return shared.ErrInvalidInput
	}
	return nil
}

// queryIDs parses the comma-separated ids query parameter.
func queryIDs(r *http.Request) []string {
	raw := r.URL.Query().Get("ids")
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

// bearerToken extracts the bearer token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
