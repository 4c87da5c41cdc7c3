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

// RatingHandler holds dependencies for rating handlers.
type RatingHandler struct {
	uc     usecase.RatingUsecase
	logger *slog.Logger
}

// NewRatingHandler is the constructor for RatingHandler, injected by Fx.
func NewRatingHandler(uc usecase.RatingUsecase, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{uc: uc, logger: logger}
}

// ListCafeRatings returns all ratings for a published cafe.
func (h *RatingHandler) ListCafeRatings(c echo.Context) error {
	cafeID, err := pathID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cafe id")
	}

	ratings, err := h.uc.ListCafeRatings(c.Request().Context(), cafeID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toRatingViews(ratings), "Ratings retrieved successfully")
}

type submitRatingRequest struct {
	Score  int    `json:"score" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"max=2000"`
}

// SubmitRating records or overwrites the caller's rating for a cafe.
func (h *RatingHandler) SubmitRating(c echo.Context) error {
	cafeID, err := pathID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cafe id")
	}

	var req submitRatingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid rating input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	rating, err := h.uc.SubmitRating(c.Request().Context(), usecase.SubmitRatingInput{
		AccountID: deliverycontext.GetCallerID(c),
		CafeID:    cafeID,
		Score:     req.Score,
		Review:    req.Review,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toRatingView(rating), "Rating submitted successfully")
}
