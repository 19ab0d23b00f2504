package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/dhruvat/astra-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required,min=8,max=72"`
	Name        string `json:"name"        validate:"required"`
	DateOfBirth string `json:"dob"         validate:"required,datetime=2006-01-02"`
	Gender      string `json:"gender"      validate:"required,oneof=male female other"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token to be used to obtain a new token pair
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	// AccessToken is the new JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the new JWT token used to obtain future access tokens
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// ProfileResponse defines the response for the profile endpoint.
type ProfileResponse struct {
	UserID      uuid.UUID            `json:"user_id"`
	Email       string               `json:"email"`
	Name        string               `json:"name"`
	DateOfBirth string               `json:"dob"`
	Gender      string               `json:"gender"`
	Age         int                  `json:"age"`
	Astrology   *domain.AstroProfile `json:"astrology,omitempty"`

	BlueprintGenerated   bool       `json:"blueprint_generated"`
	BlueprintGeneratedAt *time.Time `json:"blueprint_generated_at,omitempty"`
}

// BlueprintResponse defines the response carrying full blueprint content.
type BlueprintResponse struct {
	UserID    uuid.UUID               `json:"user_id"`
	Blueprint domain.BlueprintContent `json:"blueprint"`
}

// BlueprintPageResponse defines the response carrying one blueprint page.
type BlueprintPageResponse struct {
	Page    string             `json:"page"`
	Content domain.PageContent `json:"content"`
}

// GenerateAcceptedResponse is returned when a full blueprint generation
// run has been queued for background processing.
type GenerateAcceptedResponse struct {
	Status string `json:"status"`
}

// ProviderResponse describes one generation backend in the provider
// listing endpoint.
type ProviderResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Models       []string `json:"models"`
	DefaultModel string   `json:"defaultModel"`
	Available    bool     `json:"available"`
}

// ProvidersResponse is the full provider listing.
type ProvidersResponse struct {
	Providers []ProviderResponse `json:"providers"`
	Default   string             `json:"default"`
}
