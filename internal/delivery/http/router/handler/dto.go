package handler

import (
	"time"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
)

// accountView is the public shape of an account. Password material and
// provider identifiers never leave the server.
type accountView struct {
	ID          uint      `json:"id"`
	Handle      string    `json:"handle"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Provider    string    `json:"provider,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAccountView(a *entity.Account) *accountView {
	return &accountView{
		ID:          a.ID,
		Handle:      a.Handle,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Role:        a.Role.String(),
		Provider:    a.ProviderName,
		CreatedAt:   a.CreatedAt,
	}
}

// cafeView is the public shape of a listing, including its rating aggregate
// and, for authenticated callers, the favorite flag.
type cafeView struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Address     string   `json:"address"`
	Area        string   `json:"area"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	PriceTier   int      `json:"price_tier"`
	HasWifi     bool     `json:"has_wifi"`
	HasPower    bool     `json:"has_power"`
	ServesFood  bool     `json:"serves_food"`
	SellsBeans  bool     `json:"sells_beans"`
	Status      string   `json:"status"`
	RoastLevels []string `json:"roast_levels"`
	BrewMethods []string `json:"brew_methods"`

	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
	IsFavorite    *bool   `json:"is_favorite,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCafeView(d *entity.CafeDetails) *cafeView {
	c := d.Cafe

	roasts := make([]string, 0, len(c.RoastLevels))
	for _, r := range c.RoastLevels {
		roasts = append(roasts, r.String())
	}
	brews := make([]string, 0, len(c.BrewMethods))
	for _, b := range c.BrewMethods {
		brews = append(brews, b.String())
	}

	return &cafeView{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		Address:       c.Address,
		Area:          c.Area,
		Latitude:      c.Latitude,
		Longitude:     c.Longitude,
		PriceTier:     c.PriceTier,
		HasWifi:       c.HasWifi,
		HasPower:      c.HasPower,
		ServesFood:    c.ServesFood,
		SellsBeans:    c.SellsBeans,
		Status:        c.Status.String(),
		RoastLevels:   roasts,
		BrewMethods:   brews,
		AverageRating: d.AverageRating,
		RatingCount:   d.RatingCount,
		IsFavorite:    d.IsFavorite,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func toCafeViews(details []*entity.CafeDetails) []*cafeView {
	views := make([]*cafeView, 0, len(details))
	for _, d := range details {
		views = append(views, toCafeView(d))
	}

	return views
}

// bareCafeView wraps a cafe without aggregates, for admin write responses.
func bareCafeView(c *entity.Cafe) *cafeView {
	return toCafeView(&entity.CafeDetails{Cafe: c})
}

// ratingView is the public shape of a rating.
type ratingView struct {
	ID        uint      `json:"id"`
	AccountID uint      `json:"account_id"`
	CafeID    uint      `json:"cafe_id"`
	Score     int       `json:"score"`
	Review    string    `json:"review,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toRatingView(r *entity.Rating) *ratingView {
	return &ratingView{
		ID:        r.ID,
		AccountID: r.AccountID,
		CafeID:    r.CafeID,
		Score:     r.Score,
		Review:    r.Review,
		UpdatedAt: r.UpdatedAt,
	}
}

func toRatingViews(ratings []*entity.Rating) []*ratingView {
	views := make([]*ratingView, 0, len(ratings))
	for _, r := range ratings {
		views = append(views, toRatingView(r))
	}

	return views
}
