// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dabinj96/Peaberry-sub000/config"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/service"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// tokenClaims is the JWT payload carried by both token types.
type tokenClaims struct {
	Role string `json:"role,omitempty"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret  string        // Secret key for signing access tokens.
	refreshSecret string        // Secret key for signing refresh tokens.
	accessTTL     time.Duration // Time-to-live for access tokens.
	refreshTTL    time.Duration // Time-to-live for refresh tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	accessTTL := defaultAccessTTL
	refreshTTL := defaultRefreshTTL
	if cfg.Auth != nil {
		if cfg.Auth.AccessTokenTTL > 0 {
			accessTTL = cfg.Auth.AccessTokenTTL
		}
		if cfg.Auth.RefreshTokenTTL > 0 {
			refreshTTL = cfg.Auth.RefreshTokenTTL
		}
	}

	return &jwtService{
		accessSecret:  cfg.SecretKey.Access,
		refreshSecret: cfg.SecretKey.Refresh,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// GenerateTokens creates a new access/refresh token pair for an account.
func (s *jwtService) GenerateTokens(accountID uint, role entity.Role) (*service.TokenPair, error) {
	accessToken, err := s.generateToken(accountID, role.String(), s.accessTTL, s.accessSecret, service.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	// Role stays off the refresh token: authorization is re-resolved when
	// the pair is rotated.
	refreshToken, err := s.generateToken(accountID, "", s.refreshTTL, s.refreshSecret, service.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	return &service.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ValidateToken parses a token string, verifies its signature with the
// secret matching expectedType and checks the embedded type claim.
func (s *jwtService) ValidateToken(tokenString, expectedType string) (*service.Claims, error) {
	secret := s.accessSecret
	if expectedType == service.TokenTypeRefresh {
		secret = s.refreshSecret
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Type != expectedType {
		return nil, jwt.ErrTokenInvalidClaims
	}

	accountID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, jwt.ErrTokenInvalidSubject
	}

	return &service.Claims{
		AccountID: uint(accountID),
		Role:      entity.Role(claims.Role),
		Type:      claims.Type,
	}, nil
}

// HashToken returns the hex SHA-256 digest of a token. The digest, not the
// token, is what gets persisted.
func (s *jwtService) HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))

	return hex.EncodeToString(digest[:])
}

// GetRefreshTokenDuration returns the configured duration for refresh tokens.
func (s *jwtService) GetRefreshTokenDuration() time.Duration {
	return s.refreshTTL
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(accountID uint, role string, ttl time.Duration, secret, tokenType string) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		Role: role,
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(accountID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}
