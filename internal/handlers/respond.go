package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"familyhub/internal/service"
)

// writeJSON serializes v with the given status. Encoding failures are
// logged; by then the status line is already on the wire.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service error kinds onto HTTP statuses. Anything
// without a kind is a 500 and the detail stays out of the response body.
func writeError(w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch svcErr.Kind {
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindConflict, service.KindInvalidState:
		status = http.StatusConflict
	case service.KindForbidden:
		status = http.StatusForbidden
	case service.KindExpired:
		status = http.StatusGone
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindRateLimited:
		status = http.StatusTooManyRequests
	}
	writeJSON(w, status, errorResponse{Error: svcErr.Message})
}

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return service.Validation("failed to read request body")
	}
	if len(body) == 0 {
		return service.Validation("request body is required")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return service.Validation("invalid JSON in request body")
	}
	return nil
}

// decodeJSONOptional is decodeJSON for endpoints where the body may be
// omitted entirely
func decodeJSONOptional(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return service.Validation("failed to read request body")
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return service.Validation("invalid JSON in request body")
	}
	return nil
}
