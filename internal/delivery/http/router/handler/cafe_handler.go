package handler

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	deliverycontext "github.com/dabinj96/Peaberry-sub000/internal/delivery/context"
	"github.com/dabinj96/Peaberry-sub000/internal/delivery/http/response"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
	"github.com/dabinj96/Peaberry-sub000/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CafeHandler holds dependencies for the public browsing handlers.
type CafeHandler struct {
	uc     usecase.CafeUsecase
	logger *slog.Logger
}

// NewCafeHandler is the constructor for CafeHandler, injected by Fx.
func NewCafeHandler(uc usecase.CafeUsecase, logger *slog.Logger) *CafeHandler {
	return &CafeHandler{uc: uc, logger: logger}
}

// ListCafes runs the filter pipeline over the directory.
//
// The status parameter is only honored for admin callers; everyone else
// sees published listings regardless of what they send.
func (h *CafeHandler) ListCafes(c echo.Context) error {
	input := usecase.ListCafesInput{
		Area:         c.QueryParam("area"),
		RequireWifi:  queryBool(c, "wifi"),
		RequirePower: queryBool(c, "power"),
		RequireFood:  queryBool(c, "food"),
		RoastLevels:  queryList(c, "roast_levels"),
		BrewMethods:  queryList(c, "brew_methods"),
		Search:       c.QueryParam("q"),
		CallerID:     deliverycontext.GetCallerID(c),
	}

	if raw := c.QueryParam("max_price_tier"); raw != "" {
		tier, err := strconv.Atoi(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "max_price_tier must be an integer")
		}
		input.MaxPriceTier = tier
	}

	if raw := c.QueryParam("min_rating"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "min_rating must be a number")
		}
		input.MinRating = min
	}

	if c.QueryParams().Has("sells_beans") {
		v := queryBool(c, "sells_beans")
		input.SellsBeans = &v
	}

	// Absent vs empty matters here: absent means published only, empty
	// means every status. Only admins get to widen visibility.
	if deliverycontext.IsAdmin(c) && c.QueryParams().Has("status") {
		status := c.QueryParam("status")
		input.Status = &status
	}

	details, err := h.uc.ListCafes(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	// The engine guarantees no ordering; presentation sorts by name.
	slices.SortFunc(details, func(a, b *entity.CafeDetails) int {
		return strings.Compare(a.Cafe.Name, b.Cafe.Name)
	})

	return response.Success(c, http.StatusOK, toCafeViews(details), "Cafes retrieved successfully")
}

// GetCafe returns one listing with its rating aggregate.
func (h *CafeHandler) GetCafe(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cafe id")
	}

	details, err := h.uc.GetCafe(c.Request().Context(), id, deliverycontext.GetCallerID(c), deliverycontext.IsAdmin(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCafeView(details), "Cafe retrieved successfully")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id parameter")
	}

	return uint(id), nil
}

// queryBool treats "true" and "1" as set; anything else is false.
func queryBool(c echo.Context, name string) bool {
	v := c.QueryParam(name)

	return v == "true" || v == "1"
}

// queryList splits a comma-separated parameter, dropping empty segments.
func queryList(c echo.Context, name string) []string {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}

	return values
}
