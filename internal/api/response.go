package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zapponejosh/lunisolar-api/internal/calendar"
	"github.com/zapponejosh/lunisolar-api/internal/database"
	"github.com/zapponejosh/lunisolar-api/internal/logger"
)

// Response represents a standard API response.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error codes returned in ErrorInfo.Code.
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeOutOfRange        = "OUT_OF_RANGE"
	CodeLeapMonthMismatch = "LEAP_MONTH_MISMATCH"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInternal          = "INTERNAL_ERROR"
	CodeUnhealthy         = "HEALTH_CHECK_FAILED"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// WriteCreated writes a 201 Created response.
func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, status int, message string, code ...string) error {
	errInfo := ErrorInfo{
		Message: message,
	}
	if len(code) > 0 {
		errInfo.Code = code[0]
	}

	return WriteJSON(w, status, Response{
		Success: false,
		Error:   &errInfo,
	})
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusBadRequest, message, CodeBadRequest)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusInternalServerError, message, CodeInternal)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

// writeErr maps err to a response. Calendar validation errors become 400s,
// missing records 404s, and anything else is logged and reported as a 500
// carrying fallback as its message.
func writeErr(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, calendar.ErrLeapMonthMismatch):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeLeapMonthMismatch)
	case errors.Is(err, calendar.ErrOutOfRange),
		errors.Is(err, calendar.ErrAstronomicalDomain),
		errors.Is(err, calendar.ErrMonthLength):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeOutOfRange)
	case database.IsNotFound(err):
		WriteNotFound(w, fallback)
	default:
		logger.Error(r.Context(), fallback, err, slog.String("path", r.URL.Path))
		WriteInternalError(w, fallback)
	}
}
