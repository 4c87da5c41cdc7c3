package usecase

import (
	"context"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
)

// SubmitRatingInput defines the data for rating a cafe.
type SubmitRatingInput struct {
	AccountID uint
	CafeID    uint
	Score     int
	Review    string
}

// RatingUsecase defines the interface for rating operations.
type RatingUsecase interface {
	// SubmitRating records the caller's rating for a cafe. A second
	// submission for the same cafe overwrites the first.
	SubmitRating(ctx context.Context, input SubmitRatingInput) (*entity.Rating, error)

	// ListCafeRatings returns all ratings for a published cafe.
	ListCafeRatings(ctx context.Context, cafeID uint) ([]*entity.Rating, error)
}
