package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dhruvat/astra-api/internal/api/shared"
	"github.com/dhruvat/astra-api/internal/astro"
	"github.com/dhruvat/astra-api/internal/domain"
	"github.com/dhruvat/astra-api/internal/platform/logger"
	"github.com/dhruvat/astra-api/internal/service/auth"
	"github.com/dhruvat/astra-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	validator        *validator.Validate
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		validator:        validator.New(),
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles the /auth/register endpoint. It creates the user and
// derives their astrological profile from the date of birth in one step,
// so every registered user immediately has a profile to generate content
// from.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid dob: must be YYYY-MM-DD")
		return
	}

	user, err := domain.NewUser(req.Email, req.Password, req.Name, dob, req.Gender)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}

	user.Astrology = astro.DeriveProfile(user.DateOfBirth)

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	h.respondWithTokenPair(w, r, user.ID, http.StatusCreated)
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error("failed to get user by email", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.respondWithTokenPair(w, r, user.ID, http.StatusOK)
}

// Refresh handles the /auth/refresh endpoint. A valid refresh token yields
// a fresh access/refresh token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RefreshTokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	accessToken, err := h.jwtService.GenerateToken(r.Context(), claims.UserID)
	if err != nil {
		log.Error("failed to generate access token",
			slog.String("error", err.Error()),
			slog.String("user_id", claims.UserID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), claims.UserID)
	if err != nil {
		log.Error("failed to generate refresh token",
			slog.String("error", err.Error()),
			slog.String("user_id", claims.UserID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// respondWithTokenPair generates an access/refresh token pair for the user
// and writes the auth response.
func (h *AuthHandler) respondWithTokenPair(w http.ResponseWriter, r *http.Request, userID uuid.UUID, status int) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	accessToken, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		log.Error("failed to generate token", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		log.Error("failed to generate refresh token", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, status, AuthResponse{
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}
