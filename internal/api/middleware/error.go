// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/weekly-tracker/backend/internal/calendar"
	"github.com/weekly-tracker/backend/internal/navigation"
)

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// WriteError writes a JSON error response with the given status code.
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	WriteErrorWithDetails(w, status, errCode, message, nil)
}

// WriteErrorWithDetails writes a JSON error response with additional details.
func WriteErrorWithDetails(w http.ResponseWriter, status int, errCode, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
		Details: details,
	})
}

// WriteServiceError maps an error returned by the calendar or navigation
// packages to a status code and error code.
func WriteServiceError(w http.ResponseWriter, err error) {
	var (
		parseErr *calendar.ParseError
		tzErr    *calendar.TimezoneError
		rangeErr *calendar.RangeError
		opErr    *navigation.UnknownOperationError
	)

	switch {
	case errors.As(err, &parseErr):
		WriteErrorWithDetails(w, http.StatusBadRequest, ErrInvalidDate, err.Error(),
			map[string]string{"value": parseErr.Value})
	case errors.As(err, &opErr):
		WriteErrorWithDetails(w, http.StatusBadRequest, ErrUnknownOperation, err.Error(),
			map[string]any{"supported": navigation.Operations})
	case errors.As(err, &rangeErr):
		WriteErrorWithDetails(w, http.StatusBadRequest, ErrValidation, rangeErr.Message,
			map[string]string{"start_date": rangeErr.Start, "end_date": rangeErr.End})
	case errors.Is(err, calendar.ErrUnknownPreset),
		errors.Is(err, calendar.ErrCustomPreset),
		errors.Is(err, calendar.ErrDateOutOfRange),
		errors.Is(err, navigation.ErrInvalidDirection),
		errors.Is(err, navigation.ErrMissingTarget):
		WriteError(w, http.StatusBadRequest, ErrValidation, err.Error())
	case errors.As(err, &tzErr):
		// The configured zone is broken; nothing can be computed until an
		// administrator fixes it.
		log.Printf("Timezone configuration error: %v", err)
		WriteErrorWithDetails(w, http.StatusServiceUnavailable, ErrTimezone,
			"The configured timezone is invalid", map[string]string{"timezone": tzErr.Name})
	default:
		log.Printf("Unhandled service error: %v", err)
		WriteError(w, http.StatusInternalServerError, ErrInternalError, "An unexpected error occurred")
	}
}

// ErrorRecovery is middleware that recovers from panics and returns a 500 error.
func ErrorRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered [%s]: %v\n%s", RequestID(r.Context()), err, debug.Stack())
				WriteError(w, http.StatusInternalServerError, ErrInternalError, "An unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Common error codes
const (
	ErrNotFound         = "not_found"
	ErrBadRequest       = "bad_request"
	ErrInternalError    = "internal_error"
	ErrValidation       = "validation_error"
	ErrInvalidDate      = "invalid_date"
	ErrUnknownOperation = "unknown_operation"
	ErrTimezone         = "timezone_error"
)
