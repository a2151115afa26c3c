package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/arcana-api/internal/catalog"
	"github.com/phrazzld/arcana-api/internal/domain"
	"github.com/phrazzld/arcana-api/internal/service"
	"github.com/phrazzld/arcana-api/internal/session"
	"github.com/phrazzld/arcana-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, store.ErrReadingNotFound),
		errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors: the event was legal input but the session state
	// does not admit it.
	case errors.Is(err, domain.ErrDuplicateSelection),
		errors.Is(err, domain.ErrSpreadFull),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, service.ErrNotSavable):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, session.ErrCardNotOnTable),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Backpressure: the interpretation queue rejected the job.
	case errors.Is(err, service.ErrSessionBusy):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal
// details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Not found errors
	case errors.Is(err, service.ErrSessionNotFound):
		return "Reading session not found"

	case errors.Is(err, store.ErrReadingNotFound):
		return "Reading not found"

	case errors.Is(err, catalog.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, catalog.ErrSpreadNotFound):
		return "Spread not found"

	// Conflict errors
	case errors.Is(err, domain.ErrDuplicateSelection):
		return "Card already selected in this reading"

	case errors.Is(err, domain.ErrSpreadFull):
		return "All cards for this spread have been selected"

	case errors.Is(err, domain.ErrInvalidTransition):
		return "Action not allowed in the session's current state"

	case errors.Is(err, service.ErrNotSavable):
		return "Reading has no completed interpretation to save"

	// Bad request errors
	case errors.Is(err, session.ErrCardNotOnTable):
		return "Card is not on the table"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid reading data"

	// Backpressure
	case errors.Is(err, service.ErrSessionBusy):
		return "Interpretation queue is full, try again shortly"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'CreateReadingRequest.SpreadID' Error:Field
	// validation for 'SpreadID' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "invalid identifier format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
