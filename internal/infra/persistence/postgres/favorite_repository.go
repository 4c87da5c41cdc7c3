package postgres

import (
	"context"

	domainerrors "github.com/dabinj96/Peaberry-sub000/internal/domain/errors"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/repository"
	"github.com/dabinj96/Peaberry-sub000/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// favoriteRepository implements the domain.FavoriteRepository interface using GORM.
type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository is the constructor for favoriteRepository.
func NewFavoriteRepository(db *gorm.DB) repository.FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Add bookmarks a cafe. The do-nothing conflict clause on the composite
// unique index makes the call idempotent.
func (repo *favoriteRepository) Add(ctx context.Context, accountID, cafeID uint) error {
	favoriteM := &model.FavoriteModel{AccountID: accountID, CafeID: cafeID}

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "cafe_id"}},
			DoNothing: true,
		}).
		Create(favoriteM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrNotFound.WrapMessage("favorited cafe or account no longer exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add favorite")
	}

	return nil
}

// Remove deletes the bookmark.
func (repo *favoriteRepository) Remove(ctx context.Context, accountID, cafeID uint) error {
	result := repo.db.WithContext(ctx).
		Where("account_id = ? AND cafe_id = ?", accountID, cafeID).
		Delete(&model.FavoriteModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to remove favorite")
	}
	if result.RowsAffected == 0 {
		return repository.ErrFavoriteNotFound
	}

	return nil
}

// ListCafeIDsByAccount returns the ids of all cafes the account favorited,
// newest bookmark first.
func (repo *favoriteRepository) ListCafeIDsByAccount(ctx context.Context, accountID uint) ([]uint, error) {
	var cafeIDs []uint
	err := repo.db.WithContext(ctx).
		Model(&model.FavoriteModel{}).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Pluck("cafe_id", &cafeIDs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list favorite cafe ids")
	}

	return cafeIDs, nil
}

// DeleteByAccount removes all favorites owned by an account.
func (repo *favoriteRepository) DeleteByAccount(ctx context.Context, accountID uint) error {
	err := repo.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Delete(&model.FavoriteModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete favorites by account")
	}

	return nil
}

// DeleteByCafe removes all favorites referencing a cafe.
func (repo *favoriteRepository) DeleteByCafe(ctx context.Context, cafeID uint) error {
	err := repo.db.WithContext(ctx).
		Where("cafe_id = ?", cafeID).
		Delete(&model.FavoriteModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete favorites by cafe")
	}

	return nil
}
