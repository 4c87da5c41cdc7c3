package entity

import "time"

// RefreshToken represents a long-lived, authorized session. It is used to
// obtain a new access token after the old one expires, without credentials.
type RefreshToken struct {
	ID        uint
	AccountID uint
	TokenHash string // SHA-256 hash of the raw refresh token.
	ExpiresAt time.Time
	CreatedAt time.Time
}

// PasswordResetToken is a single-use, expiring credential mailed to an account
// so it can set a new local password.
type PasswordResetToken struct {
	ID        uint
	AccountID uint
	TokenHash string // SHA-256 hash of the raw reset token.
	ExpiresAt time.Time
	CreatedAt time.Time
}
