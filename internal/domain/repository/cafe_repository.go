package repository

import (
	"context"
	"errors"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
)

// ErrCafeNotFound is a domain-specific error returned when a cafe is not found.
var ErrCafeNotFound = errors.New("cafe not found")

// CafeQuery captures the scalar predicates the query engine pushes down into
// the store. All fields are conjunctive; zero values mean "no restriction".
type CafeQuery struct {
	// Statuses restricts the lifecycle states returned. Empty means all
	// statuses; the visibility gate is applied by the caller, not here.
	Statuses []entity.CafeStatus

	// Area matches the neighborhood label exactly. Empty means any area.
	Area string

	// MaxPriceTier is an inclusive ceiling on the price tier. 0 means any.
	MaxPriceTier int

	// Amenity requirements: true requires the flag to be set on the listing.
	RequireWifi  bool
	RequirePower bool
	RequireFood  bool

	// SellsBeans is tri-state: nil is unset, otherwise the flag must equal it.
	SellsBeans *bool

	// Search is a case-insensitive substring matched against name,
	// description, area and address (OR across the fields).
	Search string
}

// CafeRepository defines the standard operations for cafe persistence.
// Rows are returned with their roast/brew tag associations loaded.
type CafeRepository interface {
	// FindByID retrieves a single cafe (with tags) by its surrogate id.
	FindByID(ctx context.Context, id uint) (*entity.Cafe, error)

	// List returns the cafes matching the scalar predicates, tags included.
	List(ctx context.Context, query CafeQuery) ([]*entity.Cafe, error)

	// Create persists a new cafe together with its tag association rows.
	Create(ctx context.Context, cafe *entity.Cafe) error

	// Update modifies a cafe and replaces its tag association rows.
	Update(ctx context.Context, cafe *entity.Cafe) error

	// Delete removes the cafe and its tag association rows. Ratings and
	// favorites referencing it are removed by the caller in the same
	// transaction.
	Delete(ctx context.Context, id uint) error
}
