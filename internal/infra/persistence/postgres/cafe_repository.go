package postgres

import (
	"context"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
	domainerrors "github.com/dabinj96/Peaberry-sub000/internal/domain/errors"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/repository"
	"github.com/dabinj96/Peaberry-sub000/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// cafeRepository implements the domain.CafeRepository interface using GORM.
type cafeRepository struct {
	db *gorm.DB
}

// NewCafeRepository is the constructor for cafeRepository.
func NewCafeRepository(db *gorm.DB) repository.CafeRepository {
	return &cafeRepository{db: db}
}

// FindByID retrieves a single cafe with its tag rows preloaded.
func (repo *cafeRepository) FindByID(ctx context.Context, id uint) (*entity.Cafe, error) {
	var cafeM model.CafeModel
	err := repo.db.WithContext(ctx).
		Preload("RoastLevels").
		Preload("BrewMethods").
		First(&cafeM, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCafeNotFound
		}

		return nil, errors.Wrap(err, "failed to find cafe by id")
	}

	return toCafeDomain(&cafeM), nil
}

// List returns the cafes matching the scalar predicates. The tag-superset
// and rating filters run upstream in the query engine, not here.
func (repo *cafeRepository) List(ctx context.Context, query repository.CafeQuery) ([]*entity.Cafe, error) {
	tx := repo.db.WithContext(ctx).
		Preload("RoastLevels").
		Preload("BrewMethods")

	if len(query.Statuses) > 0 {
		statuses := make([]string, 0, len(query.Statuses))
		for _, s := range query.Statuses {
			statuses = append(statuses, s.String())
		}
		tx = tx.Where("status IN ?", statuses)
	}
	if query.Area != "" {
		tx = tx.Where("area = ?", query.Area)
	}
	if query.MaxPriceTier > 0 {
		tx = tx.Where("price_tier <= ?", query.MaxPriceTier)
	}
	if query.RequireWifi {
		tx = tx.Where("has_wifi")
	}
	if query.RequirePower {
		tx = tx.Where("has_power")
	}
	if query.RequireFood {
		tx = tx.Where("serves_food")
	}
	if query.SellsBeans != nil {
		tx = tx.Where("sells_beans = ?", *query.SellsBeans)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		tx = tx.Where(
			"(name ILIKE ? OR description ILIKE ? OR area ILIKE ? OR address ILIKE ?)",
			pattern, pattern, pattern, pattern,
		)
	}

	var cafeModels []*model.CafeModel
	if err := tx.Find(&cafeModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list cafes")
	}

	cafes := make([]*entity.Cafe, 0, len(cafeModels))
	for _, m := range cafeModels {
		cafes = append(cafes, toCafeDomain(m))
	}

	return cafes, nil
}

// Create persists a new cafe; GORM inserts the tag association rows in the
// same statement batch.
func (repo *cafeRepository) Create(ctx context.Context, cafe *entity.Cafe) error {
	cafeM := fromCafeDomain(cafe)

	if err := repo.db.WithContext(ctx).Create(cafeM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required cafe information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cafe")
	}

	cafe.ID = cafeM.ID
	cafe.CreatedAt = cafeM.CreatedAt
	cafe.UpdatedAt = cafeM.UpdatedAt

	return nil
}

// Update replaces the cafe's scalar fields and rewrites its tag rows. The
// delete-then-insert keeps the join tables an exact mirror of the entity's
// tag sets.
func (repo *cafeRepository) Update(ctx context.Context, cafe *entity.Cafe) error {
	cafeM := fromCafeDomain(cafe)

	db := repo.db.WithContext(ctx)

	if err := db.Omit("RoastLevels", "BrewMethods").Save(cafeM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update cafe")
	}

	if err := db.Where("cafe_id = ?", cafe.ID).Delete(&model.CafeRoastLevelModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear cafe roast levels")
	}
	if err := db.Where("cafe_id = ?", cafe.ID).Delete(&model.CafeBrewMethodModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear cafe brew methods")
	}

	if len(cafeM.RoastLevels) > 0 {
		if err := db.Create(&cafeM.RoastLevels).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to write cafe roast levels")
		}
	}
	if len(cafeM.BrewMethods) > 0 {
		if err := db.Create(&cafeM.BrewMethods).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to write cafe brew methods")
		}
	}

	cafe.UpdatedAt = cafeM.UpdatedAt

	return nil
}

// Delete removes the cafe and its tag rows.
func (repo *cafeRepository) Delete(ctx context.Context, id uint) error {
	db := repo.db.WithContext(ctx)

	if err := db.Where("cafe_id = ?", id).Delete(&model.CafeRoastLevelModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete cafe roast levels")
	}
	if err := db.Where("cafe_id = ?", id).Delete(&model.CafeBrewMethodModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete cafe brew methods")
	}

	result := db.Delete(&model.CafeModel{}, id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete cafe")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCafeNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toCafeDomain converts a GORM CafeModel to a domain Cafe entity.
func toCafeDomain(data *model.CafeModel) *entity.Cafe {
	if data == nil {
		return nil
	}

	roasts := make([]entity.RoastLevel, 0, len(data.RoastLevels))
	for _, r := range data.RoastLevels {
		roasts = append(roasts, entity.RoastLevel(r.RoastLevel))
	}
	brews := make([]entity.BrewMethod, 0, len(data.BrewMethods))
	for _, b := range data.BrewMethods {
		brews = append(brews, entity.BrewMethod(b.BrewMethod))
	}

	return &entity.Cafe{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Address:     data.Address,
		Area:        data.Area,
		Latitude:    data.Latitude,
		Longitude:   data.Longitude,
		PriceTier:   data.PriceTier,
		HasWifi:     data.HasWifi,
		HasPower:    data.HasPower,
		ServesFood:  data.ServesFood,
		SellsBeans:  data.SellsBeans,
		Status:      entity.CafeStatus(data.Status),
		RoastLevels: roasts,
		BrewMethods: brews,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromCafeDomain converts a domain Cafe entity to a GORM CafeModel.
func fromCafeDomain(data *entity.Cafe) *model.CafeModel {
	if data == nil {
		return nil
	}

	roasts := make([]model.CafeRoastLevelModel, 0, len(data.RoastLevels))
	for _, r := range data.RoastLevels {
		roasts = append(roasts, model.CafeRoastLevelModel{CafeID: data.ID, RoastLevel: r.String()})
	}
	brews := make([]model.CafeBrewMethodModel, 0, len(data.BrewMethods))
	for _, b := range data.BrewMethods {
		brews = append(brews, model.CafeBrewMethodModel{CafeID: data.ID, BrewMethod: b.String()})
	}

	return &model.CafeModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Address:     data.Address,
		Area:        data.Area,
		Latitude:    data.Latitude,
		Longitude:   data.Longitude,
		PriceTier:   data.PriceTier,
		HasWifi:     data.HasWifi,
		HasPower:    data.HasPower,
		ServesFood:  data.ServesFood,
		SellsBeans:  data.SellsBeans,
		Status:      data.Status.String(),
		RoastLevels: roasts,
		BrewMethods: brews,
		CreatedAt:   data.CreatedAt,
	}
}
