// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
)

// --- Input DTOs ---

// ListCafesInput carries the listing filters. Every field is optional and the
// predicates combine conjunctively.
type ListCafesInput struct {
	// Status is tri-state: nil means the parameter was absent (published
	// only), empty string means explicitly unrestricted (all statuses), any
	// other value restricts to exactly that status. The delivery layer only
	// forwards the parameter for admin callers.
	Status *string

	Area         string
	MaxPriceTier int
	RequireWifi  bool
	RequirePower bool
	RequireFood  bool
	SellsBeans   *bool

	// RoastLevels and BrewMethods are superset filters: a cafe survives only
	// if it carries every requested tag. Unknown values are dropped.
	RoastLevels []string
	BrewMethods []string

	// MinRating excludes cafes whose rounded average falls below it.
	// Unrated cafes average 0 and are excluded by any positive value.
	MinRating float64

	// Search is a case-insensitive substring matched over name, description,
	// area and address.
	Search string

	// CallerID annotates results with favorite status; 0 means anonymous.
	CallerID uint
}

// SaveCafeInput defines the fields an admin supplies to create or update a listing.
type SaveCafeInput struct {
	Name        string
	Description string
	Address     string
	Area        string
	Latitude    float64
	Longitude   float64
	PriceTier   int
	HasWifi     bool
	HasPower    bool
	ServesFood  bool
	SellsBeans  bool
	Status      string
	RoastLevels []string
	BrewMethods []string
}

// ImportCafesInput requests a bulk import of draft listings from the places API.
type ImportCafesInput struct {
	Area string
}

// --- Output DTOs ---

// ImportCafesOutput summarizes a bulk import run.
type ImportCafesOutput struct {
	Imported int
	Skipped  int
}

// CafeUsecase defines the interface for cafe browsing and administration.
type CafeUsecase interface {
	// ListCafes runs the filter pipeline over visible listings. Results
	// carry rating aggregates and, for authenticated callers, favorite
	// annotations. No ordering is guaranteed.
	ListCafes(ctx context.Context, input ListCafesInput) ([]*entity.CafeDetails, error)

	// GetCafe fetches one listing with aggregates. Non-published listings
	// are visible only when includeHidden is set (admin callers).
	GetCafe(ctx context.Context, id uint, callerID uint, includeHidden bool) (*entity.CafeDetails, error)

	// CreateCafe adds a listing (admin only).
	CreateCafe(ctx context.Context, input SaveCafeInput) (*entity.Cafe, error)

	// UpdateCafe replaces a listing's fields and tag sets (admin only).
	UpdateCafe(ctx context.Context, id uint, input SaveCafeInput) (*entity.Cafe, error)

	// DeleteCafe removes a listing together with its ratings, favorites and
	// tag rows in one transaction (admin only).
	DeleteCafe(ctx context.Context, id uint) error

	// ImportCafes pulls candidates from the places API and stores the new
	// ones as draft listings (admin only).
	ImportCafes(ctx context.Context, input ImportCafesInput) (*ImportCafesOutput, error)
}
