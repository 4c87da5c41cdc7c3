package entity

import (
	"slices"
	"time"
)

// CafeStatus is the publication state of a listing, gating public visibility.
type CafeStatus string

const (
	// CafeStatusDraft marks a listing awaiting admin review (e.g. fresh imports).
	CafeStatusDraft CafeStatus = "draft"
	// CafeStatusPublished marks a listing visible to everyone.
	CafeStatusPublished CafeStatus = "published"
	// CafeStatusArchived marks a listing hidden from the public directory but retained.
	CafeStatusArchived CafeStatus = "archived"
)

// String returns the string representation of the CafeStatus.
func (s CafeStatus) String() string {
	return string(s)
}

// IsValid checks if the CafeStatus is a valid value.
func (s CafeStatus) IsValid() bool {
	switch s {
	case CafeStatusDraft, CafeStatusPublished, CafeStatusArchived:
		return true
	default:
		return false
	}
}

// Cafe is a single coffee-shop listing in the directory.
type Cafe struct {
	ID          uint
	Name        string
	Description string
	Address     string  // Postal address.
	Area        string  // Neighborhood label used for equality filtering.
	Latitude    float64
	Longitude   float64
	PriceTier   int // 1 (cheap) to 4 (expensive).
	HasWifi     bool
	HasPower    bool // Power outlets available for laptops.
	ServesFood  bool
	SellsBeans  bool
	Status      CafeStatus
	RoastLevels []RoastLevel // Tag set, drawn from the closed roast enumeration.
	BrewMethods []BrewMethod // Tag set, drawn from the closed brew-method enumeration.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasAllRoastLevels reports whether the cafe's roast tags are a superset of required.
// An empty requirement always matches.
func (c *Cafe) HasAllRoastLevels(required []RoastLevel) bool {
	for _, r := range required {
		if !slices.Contains(c.RoastLevels, r) {
			return false
		}
	}

	return true
}

// HasAllBrewMethods reports whether the cafe's brew-method tags are a superset of required.
func (c *Cafe) HasAllBrewMethods(required []BrewMethod) bool {
	for _, b := range required {
		if !slices.Contains(c.BrewMethods, b) {
			return false
		}
	}

	return true
}

// CafeDetails is an enriched listing row as produced by the query engine:
// the raw cafe plus the rating aggregate and, for authenticated callers,
// whether the caller has favorited it.
type CafeDetails struct {
	Cafe          *Cafe
	AverageRating float64 // Mean score rounded to one decimal; 0 with no ratings.
	RatingCount   int
	IsFavorite    *bool // nil for anonymous callers.
}
