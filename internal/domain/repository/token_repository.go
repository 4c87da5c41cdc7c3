package repository

import (
	"context"
	"errors"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
)

// ErrRefreshTokenNotFound is returned when a refresh token is missing or expired.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// ErrResetTokenNotFound is returned when a password reset token is missing or expired.
var ErrResetTokenNotFound = errors.New("password reset token not found")

// RefreshTokenRepository defines the operations for persisted session tokens.
type RefreshTokenRepository interface {
	// Create stores a new refresh token hash for an account.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindByHash retrieves a non-expired token by its SHA-256 hash.
	FindByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// DeleteByHash revokes a single session.
	DeleteByHash(ctx context.Context, tokenHash string) error

	// DeleteByAccount revokes every session belonging to an account.
	DeleteByAccount(ctx context.Context, accountID uint) error
}

// ResetTokenRepository defines the operations for password reset tokens.
type ResetTokenRepository interface {
	// Create stores a new reset token hash for an account.
	Create(ctx context.Context, token *entity.PasswordResetToken) error

	// FindByHash retrieves a non-expired reset token by its SHA-256 hash.
	FindByHash(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error)

	// Delete consumes a reset token by id.
	Delete(ctx context.Context, id uint) error

	// DeleteByAccount removes all reset tokens issued to an account.
	DeleteByAccount(ctx context.Context, accountID uint) error
}
