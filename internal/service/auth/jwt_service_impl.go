package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dhruvat/astra-api/internal/config"
	"github.com/dhruvat/astra-api/internal/platform/logger"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

// hmacJWTService implements JWTService with HMAC-SHA256 signing. Access
// and refresh tokens share the signing key and differ only in lifetime and
// the "type" claim, which validation checks to stop one being passed off
// as the other.
type hmacJWTService struct {
	signingKey           []byte
	tokenLifetime        time.Duration
	refreshTokenLifetime time.Duration
	timeFunc             func() time.Time // injectable for deterministic tests
	clockSkew            time.Duration
}

// jwtCustomClaims is the wire form of Claims.
type jwtCustomClaims struct {
	UserID    uuid.UUID `json:"uid"`
	TokenType string    `json:"type"`
	jwt.RegisteredClaims
}

var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a JWT service from the auth configuration.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}

	return &hmacJWTService{
		signingKey:           []byte(cfg.JWTSecret),
		tokenLifetime:        time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		refreshTokenLifetime: time.Duration(cfg.RefreshTokenLifetimeMinutes) * time.Minute,
		timeFunc:             time.Now,
		clockSkew:            2 * time.Minute,
	}, nil
}

// GenerateToken creates a signed access token for the user.
func (s *hmacJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.sign(ctx, userID, accessTokenType, s.tokenLifetime)
}

// GenerateRefreshToken creates a signed refresh token for the user.
func (s *hmacJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.sign(ctx, userID, refreshTokenType, s.refreshTokenLifetime)
}

func (s *hmacJWTService) sign(ctx context.Context, userID uuid.UUID, tokenType string, lifetime time.Duration) (string, error) {
	log := logger.FromContextOrDefault(ctx, nil)
	now := s.timeFunc()

	claims := jwtCustomClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		log.Error("signing JWT",
			"error", err,
			"user_id", userID,
			"token_type", tokenType)
		return "", fmt.Errorf("signing %s token: %w", tokenType, err)
	}
	return signed, nil
}

// ValidateToken validates an access token and returns its claims.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.validate(ctx, tokenString, accessTokenType, tokenErrors{
		expired:     ErrExpiredToken,
		notYetValid: ErrTokenNotYetValid,
		invalid:     ErrInvalidToken,
	})
}

// ValidateRefreshToken validates a refresh token and returns its claims.
func (s *hmacJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.validate(ctx, tokenString, refreshTokenType, tokenErrors{
		expired:     ErrExpiredRefreshToken,
		notYetValid: ErrInvalidRefreshToken,
		invalid:     ErrInvalidRefreshToken,
	})
}

// tokenErrors maps parse failures to the sentinels for one token type.
type tokenErrors struct {
	expired     error
	notYetValid error
	invalid     error
}

func (s *hmacJWTService) validate(ctx context.Context, tokenString, wantType string, errs tokenErrors) (*Claims, error) {
	log := logger.FromContextOrDefault(ctx, nil)
	now := s.timeFunc()

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		log.Debug("token validation failed",
			"token_type", wantType,
			"error", err)
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, errs.expired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, errs.notYetValid
		default:
			return nil, errs.invalid
		}
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims", "token_type", wantType)
		return nil, errs.invalid
	}
	if claims.TokenType != wantType {
		log.Debug("token validation failed: wrong token type",
			"expected", wantType,
			"actual", claims.TokenType)
		return nil, ErrWrongTokenType
	}

	log.Debug("token validated",
		"user_id", claims.UserID,
		"token_type", wantType,
		"expiry", claims.ExpiresAt.Time)

	return &Claims{
		UserID:    claims.UserID,
		TokenType: claims.TokenType,
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}, nil
}
