package postgres

import (
	"context"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
	domainerrors "github.com/dabinj96/Peaberry-sub000/internal/domain/errors"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/repository"
	"github.com/dabinj96/Peaberry-sub000/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ratingRepository implements the domain.RatingRepository interface using GORM.
type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository is the constructor for ratingRepository.
func NewRatingRepository(db *gorm.DB) repository.RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert writes the rating for its (account, cafe) pair. The ON CONFLICT
// clause on the composite unique index makes the write last-writer-wins
// without a read-modify-write race.
func (repo *ratingRepository) Upsert(ctx context.Context, rating *entity.Rating) error {
	ratingM := fromRatingDomain(rating)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "cafe_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "review", "updated_at"}),
		}).
		Create(ratingM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrNotFound.WrapMessage("rated cafe or account no longer exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert rating")
	}

	rating.ID = ratingM.ID
	rating.CreatedAt = ratingM.CreatedAt
	rating.UpdatedAt = ratingM.UpdatedAt

	return nil
}

// FindByAccountAndCafe retrieves the single rating for a pair.
func (repo *ratingRepository) FindByAccountAndCafe(ctx context.Context, accountID, cafeID uint) (*entity.Rating, error) {
	var ratingM model.RatingModel
	err := repo.db.WithContext(ctx).
		Where("account_id = ? AND cafe_id = ?", accountID, cafeID).
		First(&ratingM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRatingNotFound
		}

		return nil, errors.Wrap(err, "failed to find rating")
	}

	return toRatingDomain(&ratingM), nil
}

// ListByCafe returns all ratings for a cafe, newest first.
func (repo *ratingRepository) ListByCafe(ctx context.Context, cafeID uint) ([]*entity.Rating, error) {
	var ratingModels []*model.RatingModel
	err := repo.db.WithContext(ctx).
		Where("cafe_id = ?", cafeID).
		Order("updated_at DESC").
		Find(&ratingModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list ratings by cafe")
	}

	return toRatingDomainSlice(ratingModels), nil
}

// ListByAccount returns all ratings authored by an account.
func (repo *ratingRepository) ListByAccount(ctx context.Context, accountID uint) ([]*entity.Rating, error) {
	var ratingModels []*model.RatingModel
	err := repo.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("updated_at DESC").
		Find(&ratingModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list ratings by account")
	}

	return toRatingDomainSlice(ratingModels), nil
}

// AggregateByCafeIDs computes the per-cafe score sum and row count in one
// grouped query. Cafes without ratings produce no row.
func (repo *ratingRepository) AggregateByCafeIDs(ctx context.Context, cafeIDs []uint) (map[uint]entity.RatingAggregate, error) {
	if len(cafeIDs) == 0 {
		return map[uint]entity.RatingAggregate{}, nil
	}

	var rows []struct {
		CafeID uint
		Sum    int
		Count  int
	}
	err := repo.db.WithContext(ctx).
		Model(&model.RatingModel{}).
		Select("cafe_id, SUM(score) AS sum, COUNT(*) AS count").
		Where("cafe_id IN ?", cafeIDs).
		Group("cafe_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate ratings")
	}

	aggregates := make(map[uint]entity.RatingAggregate, len(rows))
	for _, row := range rows {
		aggregates[row.CafeID] = entity.RatingAggregate{Sum: row.Sum, Count: row.Count}
	}

	return aggregates, nil
}

// DeleteByAccount removes all ratings authored by an account.
func (repo *ratingRepository) DeleteByAccount(ctx context.Context, accountID uint) error {
	err := repo.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Delete(&model.RatingModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete ratings by account")
	}

	return nil
}

// DeleteByCafe removes all ratings referencing a cafe.
func (repo *ratingRepository) DeleteByCafe(ctx context.Context, cafeID uint) error {
	err := repo.db.WithContext(ctx).
		Where("cafe_id = ?", cafeID).
		Delete(&model.RatingModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete ratings by cafe")
	}

	return nil
}

// --- Mapper Functions ---

func toRatingDomain(data *model.RatingModel) *entity.Rating {
	if data == nil {
		return nil
	}

	return &entity.Rating{
		ID:        data.ID,
		AccountID: data.AccountID,
		CafeID:    data.CafeID,
		Score:     data.Score,
		Review:    data.Review,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func toRatingDomainSlice(data []*model.RatingModel) []*entity.Rating {
	ratings := make([]*entity.Rating, 0, len(data))
	for _, m := range data {
		ratings = append(ratings, toRatingDomain(m))
	}

	return ratings
}

func fromRatingDomain(data *entity.Rating) *model.RatingModel {
	if data == nil {
		return nil
	}

	return &model.RatingModel{
		ID:        data.ID,
		AccountID: data.AccountID,
		CafeID:    data.CafeID,
		Score:     data.Score,
		Review:    data.Review,
		CreatedAt: data.CreatedAt,
	}
}
