package service

import (
	"context"

	"github.com/paulmach/orb"
)

// PlaceCandidate is a cafe listing discovered at an external places API,
// before an operator reviews it.
type PlaceCandidate struct {
	ExternalID string
	Name       string
	Address    string
	Location   orb.Point // lon, lat
	PriceTier  int
}

// PlaceSearcher queries an external places API for cafe candidates.
type PlaceSearcher interface {
	// SearchCafes returns cafe candidates near the given area label.
	SearchCafes(ctx context.Context, area string) ([]PlaceCandidate, error)
}
