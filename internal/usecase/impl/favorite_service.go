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

// favoriteService implements the FavoriteUsecase interface.
type favoriteService struct {
	txManager    repository.TransactionManager
	cafeRepo     repository.CafeRepository
	ratingRepo   repository.RatingRepository
	favoriteRepo repository.FavoriteRepository
	logger       *slog.Logger
}

// FavoriteServiceParams holds dependencies for favoriteService, injected by Fx.
type FavoriteServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	CafeRepo     repository.CafeRepository
	RatingRepo   repository.RatingRepository
	FavoriteRepo repository.FavoriteRepository
	Logger       *slog.Logger
}

// NewFavoriteService is the constructor for favoriteService.
func NewFavoriteService(params FavoriteServiceParams) usecase.FavoriteUsecase {
	return &favoriteService{
		txManager:    params.TxManager,
		cafeRepo:     params.CafeRepo,
		ratingRepo:   params.RatingRepo,
		favoriteRepo: params.FavoriteRepo,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *favoriteService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AddFavorite bookmarks a cafe. The store upserts do-nothing on the
// (account, cafe) unique index, so repeating the call is a no-op.
func (srv *favoriteService) AddFavorite(ctx context.Context, accountID, cafeID uint) error {
	srv.log(ctx).Debug("Adding favorite", slog.Any("account_id", accountID), slog.Any("cafe_id", cafeID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cafe, err := repoFactory.CafeRepo().FindByID(ctx, cafeID)
		if err != nil {
			if errors.Is(err, repository.ErrCafeNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "cafe not found")
			}

			return errors.Wrap(err, "failed to find cafe")
		}
		if cafe.Status != entity.CafeStatusPublished {
			return errors.Wrap(domainerrors.ErrNotFound, "cafe not found")
		}

		return repoFactory.FavoriteRepo().Add(ctx, accountID, cafeID)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to add favorite", slog.Any("error", err), slog.Any("cafe_id", cafeID))

		return errors.Wrap(err, "failed to execute favorite transaction")
	}

	return nil
}

// RemoveFavorite deletes the bookmark.
func (srv *favoriteService) RemoveFavorite(ctx context.Context, accountID, cafeID uint) error {
	if err := srv.favoriteRepo.Remove(ctx, accountID, cafeID); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return errors.Wrap(domainerrors.ErrNotFound, "favorite not found")
		}
		srv.log(ctx).Error("Failed to remove favorite", slog.Any("error", err), slog.Any("cafe_id", cafeID))

		return errors.Wrap(err, "failed to remove favorite")
	}

	return nil
}

// ListFavorites returns the caller's bookmarked cafes enriched with rating
// aggregates. Every row carries IsFavorite=true by construction.
func (srv *favoriteService) ListFavorites(ctx context.Context, accountID uint) ([]*entity.CafeDetails, error) {
	cafeIDs, err := srv.favoriteRepo.ListCafeIDsByAccount(ctx, accountID)
	if err != nil {
		srv.log(ctx).Error("Failed to list favorites", slog.Any("error", err), slog.Any("account_id", accountID))

		return nil, errors.Wrap(err, "failed to list favorites")
	}
	if len(cafeIDs) == 0 {
		return []*entity.CafeDetails{}, nil
	}

	aggregates, err := srv.ratingRepo.AggregateByCafeIDs(ctx, cafeIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate ratings")
	}

	marked := true
	details := make([]*entity.CafeDetails, 0, len(cafeIDs))
	for _, id := range cafeIDs {
		cafe, err := srv.cafeRepo.FindByID(ctx, id)
		if err != nil {
			// A favorite may race a concurrent cafe deletion; skip the hole.
			if errors.Is(err, repository.ErrCafeNotFound) {
				continue
			}

			return nil, errors.Wrap(err, "failed to find cafe")
		}

		agg := aggregates[cafe.ID]
		details = append(details, &entity.CafeDetails{
			Cafe:          cafe,
			AverageRating: agg.Average(),
			RatingCount:   agg.Count,
			IsFavorite:    &marked,
		})
	}

	return details, nil
}
