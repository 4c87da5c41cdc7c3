package impl

import (
	"context"
	"log/slog"

	deliverycontext "github.com/dabinj96/Peaberry-sub000/internal/delivery/context"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
	domainerrors "github.com/dabinj96/Peaberry-sub000/internal/domain/errors"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/repository"
	"github.com/dabinj96/Peaberry-sub000/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ratingService implements the RatingUsecase interface.
type ratingService struct {
	txManager  repository.TransactionManager
	cafeRepo   repository.CafeRepository
	ratingRepo repository.RatingRepository
	logger     *slog.Logger
}

// RatingServiceParams holds dependencies for ratingService, injected by Fx.
type RatingServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	CafeRepo   repository.CafeRepository
	RatingRepo repository.RatingRepository
	Logger     *slog.Logger
}

// NewRatingService is the constructor for ratingService.
func NewRatingService(params RatingServiceParams) usecase.RatingUsecase {
	return &ratingService{
		txManager:  params.TxManager,
		cafeRepo:   params.CafeRepo,
		ratingRepo: params.RatingRepo,
		logger:     params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *ratingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SubmitRating records the caller's rating for a cafe. The store upserts on
// the (account, cafe) unique index, so resubmitting replaces the earlier
// score instead of adding a second row.
func (srv *ratingService) SubmitRating(ctx context.Context, input usecase.SubmitRatingInput) (*entity.Rating, error) {
	srv.log(ctx).Debug("Submitting rating", slog.Any("account_id", input.AccountID), slog.Any("cafe_id", input.CafeID))

	if input.Score < 1 || input.Score > 5 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "score must be between 1 and 5")
	}

	rating := &entity.Rating{
		AccountID: input.AccountID,
		CafeID:    input.CafeID,
		Score:     input.Score,
		Review:    input.Review,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cafe, err := repoFactory.CafeRepo().FindByID(ctx, input.CafeID)
		if err != nil {
			if errors.Is(err, repository.ErrCafeNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "cafe not found")
			}

			return errors.Wrap(err, "failed to find cafe")
		}
		if cafe.Status != entity.CafeStatusPublished {
			return errors.Wrap(domainerrors.ErrNotFound, "cafe not found")
		}

		return repoFactory.RatingRepo().Upsert(ctx, rating)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to submit rating", slog.Any("error", err), slog.Any("cafe_id", input.CafeID))

		return nil, errors.Wrap(err, "failed to execute rating transaction")
	}
	srv.log(ctx).Info("Rating submitted", slog.Any("account_id", input.AccountID), slog.Any("cafe_id", input.CafeID), slog.Int("score", input.Score))

	return rating, nil
}

// ListCafeRatings returns all ratings for a published cafe.
func (srv *ratingService) ListCafeRatings(ctx context.Context, cafeID uint) ([]*entity.Rating, error) {
	cafe, err := srv.cafeRepo.FindByID(ctx, cafeID)
	if err != nil {
		if errors.Is(err, repository.ErrCafeNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "cafe not found")
		}

		return nil, errors.Wrap(err, "failed to find cafe")
	}
	if cafe.Status != entity.CafeStatusPublished {
		return nil, errors.Wrap(domainerrors.ErrNotFound, "cafe not found")
	}

	ratings, err := srv.ratingRepo.ListByCafe(ctx, cafeID)
	if err != nil {
		srv.log(ctx).Error("Failed to list ratings", slog.Any("error", err), slog.Any("cafe_id", cafeID))

		return nil, errors.Wrap(err, "failed to list ratings")
	}

	return ratings, nil
}
