package repository

import (
	"context"
	"errors"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
)

// ErrRatingNotFound is a domain-specific error returned when a rating is not found.
var ErrRatingNotFound = errors.New("rating not found")

// RatingRepository defines the standard operations for rating persistence.
type RatingRepository interface {
	// Upsert writes the rating for its (account, cafe) pair. The pair is
	// covered by a unique constraint, so a second submission overwrites the
	// first instead of inserting a duplicate.
	Upsert(ctx context.Context, rating *entity.Rating) error

	// FindByAccountAndCafe retrieves the single rating for a pair.
	FindByAccountAndCafe(ctx context.Context, accountID, cafeID uint) (*entity.Rating, error)

	// ListByCafe returns all ratings for a cafe.
	ListByCafe(ctx context.Context, cafeID uint) ([]*entity.Rating, error)

	// ListByAccount returns all ratings authored by an account.
	ListByAccount(ctx context.Context, accountID uint) ([]*entity.Rating, error)

	// AggregateByCafeIDs returns the per-cafe score sum and row count for the
	// given cafes. Cafes without ratings are absent from the result map.
	AggregateByCafeIDs(ctx context.Context, cafeIDs []uint) (map[uint]entity.RatingAggregate, error)

	// DeleteByAccount removes all ratings authored by an account.
	DeleteByAccount(ctx context.Context, accountID uint) error

	// DeleteByCafe removes all ratings referencing a cafe.
	DeleteByCafe(ctx context.Context, cafeID uint) error
}
