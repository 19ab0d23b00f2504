package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dhruvat/astra-api/internal/api/shared"
	"github.com/dhruvat/astra-api/internal/domain"
)

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context. The user ID is placed there by the authentication
// middleware; a missing or nil ID means the route was reached without it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// getPathPage extracts and validates the blueprint page identifier from the
// URL path. Returns ErrUnknownPage for identifiers outside the fixed page
// set.
func getPathPage(r *http.Request) (string, error) {
	page := chi.URLParam(r, "page")
	if page == "" {
		return "", domain.NewValidationError("page", "is required", domain.ErrValidation)
	}
	if !domain.IsBlueprintPage(page) {
		return "", domain.ErrUnknownPage
	}
	return page, nil
}
