package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dhruvat/astra-api/internal/api/shared"
	"github.com/dhruvat/astra-api/internal/blueprint"
	"github.com/dhruvat/astra-api/internal/domain"
	"github.com/dhruvat/astra-api/internal/generation"
	"github.com/dhruvat/astra-api/internal/service/auth"
	"github.com/dhruvat/astra-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrBlueprintNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrUnknownPage),
		errors.Is(err, blueprint.ErrMissingProfile):
		return http.StatusBadRequest

	// Upstream generation failures
	case errors.Is(err, generation.ErrAllProvidersFailed):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrBlueprintNotFound):
		return "Blueprint not generated yet"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	// Bad request errors
	case errors.Is(err, domain.ErrUnknownPage):
		return "Unknown blueprint page"

	case errors.Is(err, blueprint.ErrMissingProfile):
		return "User has no astrological profile"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"

	// Upstream generation failures
	case errors.Is(err, generation.ErrAllProvidersFailed):
		return "All AI providers failed"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes an error response for the given error, mapping it
// to a status code and safe message. An empty userMessage selects the safe
// message derived from the error type; the raw error only reaches the logs.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Extract the field name and validation tag
		// Example format: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			// Further split to get just the field validation part
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				// Create a cleaner error message
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "datetime":
		return "invalid date format"
	default:
		return "validation failed"
	}
}
