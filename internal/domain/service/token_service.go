package service

import (
	"time"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
)

// TokenPair bundles the credentials issued to a session: a short-lived
// access token carried on requests and a long-lived refresh token the
// client exchanges for a new pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Token type discriminators embedded in the claims so one token kind can
// never stand in for the other.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the payload embedded in issued tokens.
type Claims struct {
	AccountID uint
	Role      entity.Role
	Type      string // TokenTypeAccess or TokenTypeRefresh
}

// TokenService defines the operations for issuing and validating session tokens.
type TokenService interface {
	// GenerateTokens issues an access/refresh pair for the account.
	GenerateTokens(accountID uint, role entity.Role) (*TokenPair, error)

	// ValidateToken parses and verifies a token of the expected type.
	ValidateToken(tokenString, expectedType string) (*Claims, error)

	// HashToken returns the hex SHA-256 digest of a token. Only the digest
	// is persisted, so a leaked token table cannot be replayed.
	HashToken(token string) string

	// GetRefreshTokenDuration reports how long issued refresh tokens live.
	GetRefreshTokenDuration() time.Duration
}
