package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "github.com/dabinj96/Peaberry-sub000/internal/delivery/context"
	"github.com/dabinj96/Peaberry-sub000/internal/delivery/http/response"
	"github.com/dabinj96/Peaberry-sub000/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// FavoriteHandler holds dependencies for bookmark handlers.
type FavoriteHandler struct {
	uc     usecase.FavoriteUsecase
	logger *slog.Logger
}

// NewFavoriteHandler is the constructor for FavoriteHandler, injected by Fx.
func NewFavoriteHandler(uc usecase.FavoriteUsecase, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{uc: uc, logger: logger}
}

// AddFavorite bookmarks a cafe for the caller. Repeating the call is a no-op.
func (h *FavoriteHandler) AddFavorite(c echo.Context) error {
	cafeID, err := pathID(c, "cafeID")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cafe id")
	}

	if err := h.uc.AddFavorite(c.Request().Context(), deliverycontext.GetCallerID(c), cafeID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, "Cafe favorited successfully")
}

// RemoveFavorite deletes the caller's bookmark.
func (h *FavoriteHandler) RemoveFavorite(c echo.Context) error {
	cafeID, err := pathID(c, "cafeID")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cafe id")
	}

	if err := h.uc.RemoveFavorite(c.Request().Context(), deliverycontext.GetCallerID(c), cafeID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Favorite removed successfully")
}

// ListFavorites returns the caller's bookmarked cafes with aggregates.
func (h *FavoriteHandler) ListFavorites(c echo.Context) error {
	details, err := h.uc.ListFavorites(c.Request().Context(), deliverycontext.GetCallerID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCafeViews(details), "Favorites retrieved successfully")
}
