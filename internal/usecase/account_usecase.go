package usecase

import (
	"context"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a local account.
type RegisterInput struct {
	Handle      string
	Email       string
	Password    string
	DisplayName string
}

// LoginInput defines the data required for a local login.
type LoginInput struct {
	Handle   string
	Password string
}

// ExternalLoginInput carries the identity-provider credential.
type ExternalLoginInput struct {
	ProviderName string
	IDToken      string
}

// ChangePasswordInput defines the data required to change a password.
type ChangePasswordInput struct {
	AccountID       uint
	CurrentPassword string
	NewPassword     string
}

// ResetPasswordInput consumes an emailed reset token.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// DeleteAccountInput defines the data required to delete an account.
// Password is ignored for external-only accounts.
type DeleteAccountInput struct {
	AccountID uint
	Password  string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account's basic information.
type RegisterOutput struct {
	Account *entity.Account
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	Account      *entity.Account
}

// AccountUsecase defines the interface for account and session operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// ExternalLogin verifies a provider credential and signs the caller in,
	// matching by provider uid, then by email (linking), then by creating a
	// fresh external-only account.
	ExternalLogin(ctx context.Context, input ExternalLoginInput) (*LoginOutput, error)

	// Refresh exchanges a valid refresh token for a new token pair and
	// rotates the stored hash.
	Refresh(ctx context.Context, refreshToken string) (*LoginOutput, error)

	// Logout revokes the session the refresh token identifies.
	Logout(ctx context.Context, refreshToken string) error

	// GetProfile returns the caller's account.
	GetProfile(ctx context.Context, accountID uint) (*entity.Account, error)

	// ChangePassword verifies the current password before setting a new one.
	// External-only accounts have no password to change and are rejected.
	ChangePassword(ctx context.Context, input ChangePasswordInput) error

	// RequestPasswordReset issues an expiring reset token and emails it.
	// Unknown addresses succeed silently.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and sets the new password.
	ResetPassword(ctx context.Context, input ResetPasswordInput) error

	// DeleteAccount removes the account and all dependent rows in one
	// transaction, then best-effort deletes the provider-side identity.
	DeleteAccount(ctx context.Context, input DeleteAccountInput) error
}
