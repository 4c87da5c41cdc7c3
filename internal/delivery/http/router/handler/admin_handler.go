package handler

import (
	"log/slog"
	"net/http"

	"github.com/dabinj96/Peaberry-sub000/internal/delivery/http/response"
	"github.com/dabinj96/Peaberry-sub000/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AdminHandler holds dependencies for the back-office listing handlers.
type AdminHandler struct {
	uc     usecase.CafeUsecase
	logger *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(uc usecase.CafeUsecase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{uc: uc, logger: logger}
}

type saveCafeRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description" validate:"max=4000"`
	Address     string   `json:"address" validate:"max=255"`
	Area        string   `json:"area" validate:"max=120"`
	Latitude    float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64  `json:"longitude" validate:"min=-180,max=180"`
	PriceTier   int      `json:"price_tier" validate:"required,min=1,max=4"`
	HasWifi     bool     `json:"has_wifi"`
	HasPower    bool     `json:"has_power"`
	ServesFood  bool     `json:"serves_food"`
	SellsBeans  bool     `json:"sells_beans"`
	Status      string   `json:"status"`
	RoastLevels []string `json:"roast_levels"`
	BrewMethods []string `json:"brew_methods"`
}

func (r *saveCafeRequest) toInput() usecase.SaveCafeInput {
	return usecase.SaveCafeInput{
		Name:        r.Name,
		Description: r.Description,
		Address:     r.Address,
		Area:        r.Area,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		PriceTier:   r.PriceTier,
		HasWifi:     r.HasWifi,
		HasPower:    r.HasPower,
		ServesFood:  r.ServesFood,
		SellsBeans:  r.SellsBeans,
		Status:      r.Status,
		RoastLevels: r.RoastLevels,
		BrewMethods: r.BrewMethods,
	}
}

// CreateCafe adds a listing.
func (h *AdminHandler) CreateCafe(c echo.Context) error {
	var req saveCafeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cafe input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	cafe, err := h.uc.CreateCafe(c.Request().Context(), req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, bareCafeView(cafe), "Cafe created successfully")
}

// UpdateCafe replaces a listing's fields and tag sets.
func (h *AdminHandler) UpdateCafe(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cafe id")
	}

	var req saveCafeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cafe input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	cafe, err := h.uc.UpdateCafe(c.Request().Context(), id, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, bareCafeView(cafe), "Cafe updated successfully")
}

// DeleteCafe removes a listing with its ratings and favorites.
func (h *AdminHandler) DeleteCafe(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cafe id")
	}

	if err := h.uc.DeleteCafe(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Cafe deleted successfully")
}

type importCafesRequest struct {
	Area string `json:"area" validate:"required,max=120"`
}

// ImportCafes pulls candidates from the places API into draft listings.
func (h *AdminHandler) ImportCafes(c echo.Context) error {
	var req importCafesRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid import input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.ImportCafes(c.Request().Context(), usecase.ImportCafesInput{Area: req.Area})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int{
		"imported": output.Imported,
		"skipped":  output.Skipped,
	}, "Import completed")
}
