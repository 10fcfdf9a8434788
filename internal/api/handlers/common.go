// Package handlers provides HTTP request handlers for the live metrics API.
// This file contains the response helpers and error mapping shared by all
// handlers.
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/janakawicks/manageiq/internal/api/middleware"
	"github.com/janakawicks/manageiq/internal/errors"
	"github.com/janakawicks/manageiq/internal/livemetrics"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log error but don't try to write another response
		slog.Error("Failed to encode JSON response",
			"request_id", middleware.GetRequestID(r),
			"error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, r *http.Request, statusCode int, err error) {
	response := ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
		RequestID: middleware.GetRequestID(r),
	}
	if code := errors.GetCode(err); code != errors.CodeUnknown {
		response.Code = string(code)
	}

	writeJSON(w, r, statusCode, response)
}

// statusForError maps the coded error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeValidation:
		return http.StatusBadRequest
	case errors.CodeMetricValidation, errors.CodeConfiguration:
		return http.StatusInternalServerError
	case errors.CodeCaptureNoData, errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeTimeout, errors.CodeServiceTimeout, errors.CodeDatabaseTimeout:
		return http.StatusGatewayTimeout
	case errors.CodeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// handleError logs server-side failures and writes the mapped response.
// Database details stay in the log; clients only see the sanitized message.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	statusCode := statusForError(err)
	if statusCode >= http.StatusInternalServerError {
		logger.Error("Request failed",
			"request_id", middleware.GetRequestID(r),
			"path", r.URL.Path,
			"status", statusCode,
			"error", err)
	}
	writeError(w, r, statusCode, err)
}

// extractEntityType returns the {type} path variable after validating it.
func extractEntityType(r *http.Request) (string, error) {
	entityType := mux.Vars(r)["type"]
	if !livemetrics.ValidTypeName(entityType) {
		return "", errors.NewValidationError("type", fmt.Sprintf("invalid entity type %q", entityType))
	}
	return entityType, nil
}

// extractUUIDFromPath extracts the {id} path variable.
func extractUUIDFromPath(r *http.Request) (uuid.UUID, error) {
	idStr, exists := mux.Vars(r)["id"]
	if !exists {
		return uuid.Nil, errors.NewValidationError("id", "id not provided")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, errors.NewValidationError("id", fmt.Sprintf("invalid id: %s", idStr))
	}
	return id, nil
}

// parseTimeParam accepts RFC 3339 timestamps or epoch milliseconds.
func parseTimeParam(r *http.Request, key string) (time.Time, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return time.Time{}, nil
	}

	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.NewValidationError(key, fmt.Sprintf("invalid time %q", value))
	}
	return t.UTC(), nil
}

// queryValues collects a repeatable parameter, splitting comma separated
// lists and dropping blanks.
func queryValues(r *http.Request, key string) []string {
	var values []string
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}
