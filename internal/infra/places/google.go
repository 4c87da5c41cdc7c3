// Package places implements the external places lookup used by the bulk
// listing import.
package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/dabinj96/Peaberry-sub000/config"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/service"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

const defaultEndpoint = "https://maps.googleapis.com/maps/api/place/textsearch/json"

// googlePlaces implements PlaceSearcher against the Google Places text
// search API.
type googlePlaces struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewGooglePlaces is the constructor for googlePlaces.
func NewGooglePlaces(cfg *config.Config) (service.PlaceSearcher, error) {
	if cfg.Places == nil || cfg.Places.APIKey == "" {
		return nil, errors.New("places API key is required")
	}

	endpoint := cfg.Places.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	return &googlePlaces{
		apiKey:   cfg.Places.APIKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// textSearchResponse mirrors the fields of the Places text search payload
// the import cares about.
type textSearchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		PriceLevel       int    `json:"price_level"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// SearchCafes returns cafe candidates near the given area label.
func (g *googlePlaces) SearchCafes(ctx context.Context, area string) ([]service.PlaceCandidate, error) {
	query := url.Values{}
	query.Set("query", "cafes in "+area)
	query.Set("type", "cafe")
	query.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build places request")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "places request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("places request returned status %d", resp.StatusCode)
	}

	var payload textSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode places response")
	}
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		return nil, errors.Errorf("places API status %s", payload.Status)
	}

	candidates := make([]service.PlaceCandidate, 0, len(payload.Results))
	for _, r := range payload.Results {
		priceTier := r.PriceLevel
		if priceTier < 1 {
			priceTier = 1
		}
		if priceTier > 4 {
			priceTier = 4
		}

		candidates = append(candidates, service.PlaceCandidate{
			ExternalID: r.PlaceID,
			Name:       r.Name,
			Address:    r.FormattedAddress,
			Location:   orb.Point{r.Geometry.Location.Lng, r.Geometry.Location.Lat},
			PriceTier:  priceTier,
		})
	}

	return candidates, nil
}
