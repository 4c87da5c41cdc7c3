// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
)

// ErrAccountNotFound is a domain-specific error returned when an account is not found.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for account persistence.
// Natural-key lookups (handle, email, provider pair) return at most one row;
// uniqueness is enforced by database constraints, not by callers.
type AccountRepository interface {
	// FindByID retrieves a single account by its surrogate id.
	FindByID(ctx context.Context, id uint) (*entity.Account, error)

	// FindByHandle retrieves a single account by its unique handle.
	FindByHandle(ctx context.Context, handle string) (*entity.Account, error)

	// FindByEmail retrieves a single account by its unique email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindByProvider retrieves the account linked to an external identity.
	FindByProvider(ctx context.Context, providerName, providerUID string) (*entity.Account, error)

	// Create persists a new account. Duplicate natural keys surface as a
	// Conflict domain error translated from the constraint violation.
	Create(ctx context.Context, account *entity.Account) error

	// Update modifies an existing account.
	Update(ctx context.Context, account *entity.Account) error

	// Delete removes the account row. Dependent rows (ratings, favorites,
	// tokens) are removed by the caller inside the same transaction.
	Delete(ctx context.Context, id uint) error
}
