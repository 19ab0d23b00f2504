package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dhruvat/astra-api/internal/api/shared"
	"github.com/dhruvat/astra-api/internal/redact"
	"github.com/dhruvat/astra-api/internal/service/auth"
)

// AuthMiddleware guards routes with JWT bearer authentication.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates an AuthMiddleware over the given JWT service.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate validates the bearer token from the Authorization header
// and stores the authenticated user's ID on the request context for the
// handlers downstream.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			return
		case errors.Is(err, auth.ErrInvalidToken):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			return
		case err != nil:
			slog.Error("validating token", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the authenticated user's ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok
}
