package usecase

import (
	"context"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
)

// FavoriteUsecase defines the interface for bookmark operations.
type FavoriteUsecase interface {
	// AddFavorite bookmarks a cafe for the caller. Repeating the call is a
	// no-op, not an error.
	AddFavorite(ctx context.Context, accountID, cafeID uint) error

	// RemoveFavorite deletes the bookmark.
	RemoveFavorite(ctx context.Context, accountID, cafeID uint) error

	// ListFavorites returns the caller's bookmarked cafes with aggregates.
	ListFavorites(ctx context.Context, accountID uint) ([]*entity.CafeDetails, error)
}
