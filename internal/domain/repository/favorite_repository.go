package repository

import (
	"context"
	"errors"
)

// ErrFavoriteNotFound is a domain-specific error returned when a favorite is not found.
var ErrFavoriteNotFound = errors.New("favorite not found")

// FavoriteRepository defines the standard operations for favorite persistence.
type FavoriteRepository interface {
	// Add bookmarks a cafe for an account. The (account, cafe) pair is
	// covered by a unique constraint and creation is idempotent: adding an
	// existing favorite succeeds without inserting a second row.
	Add(ctx context.Context, accountID, cafeID uint) error

	// Remove deletes the bookmark, returning ErrFavoriteNotFound when absent.
	Remove(ctx context.Context, accountID, cafeID uint) error

	// ListCafeIDsByAccount returns the ids of all cafes the account favorited.
	ListCafeIDsByAccount(ctx context.Context, accountID uint) ([]uint, error)

	// DeleteByAccount removes all favorites owned by an account.
	DeleteByAccount(ctx context.Context, accountID uint) error

	// DeleteByCafe removes all favorites referencing a cafe.
	DeleteByCafe(ctx context.Context, cafeID uint) error
}
