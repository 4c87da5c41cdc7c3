// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "github.com/dabinj96/Peaberry-sub000/internal/delivery/context"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
	domainerrors "github.com/dabinj96/Peaberry-sub000/internal/domain/errors"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/repository"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/service"
	"github.com/dabinj96/Peaberry-sub000/internal/usecase"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// duplicateRadiusMeters is the distance under which two imported candidates
// are treated as the same physical cafe.
const duplicateRadiusMeters = 25.0

// cafeService implements the CafeUsecase interface. It is the query engine
// for the public directory and the back office behind the admin endpoints.
type cafeService struct {
	txManager     repository.TransactionManager
	cafeRepo      repository.CafeRepository
	ratingRepo    repository.RatingRepository
	favoriteRepo  repository.FavoriteRepository
	placeSearcher service.PlaceSearcher
	logger        *slog.Logger
}

// CafeServiceParams holds dependencies for cafeService, injected by Fx.
type CafeServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	CafeRepo      repository.CafeRepository
	RatingRepo    repository.RatingRepository
	FavoriteRepo  repository.FavoriteRepository
	PlaceSearcher service.PlaceSearcher
	Logger        *slog.Logger
}

// NewCafeService is the constructor for cafeService.
func NewCafeService(params CafeServiceParams) usecase.CafeUsecase {
	return &cafeService{
		txManager:     params.TxManager,
		cafeRepo:      params.CafeRepo,
		ratingRepo:    params.RatingRepo,
		favoriteRepo:  params.FavoriteRepo,
		placeSearcher: params.PlaceSearcher,
		logger:        params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *cafeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// resolveStatuses maps the tri-state status parameter onto the store query.
// nil means the parameter was never sent: the public default of published
// listings only. A present-but-empty value lifts the restriction entirely,
// and any other value selects exactly that status.
func resolveStatuses(status *string) ([]entity.CafeStatus, error) {
	if status == nil {
		return []entity.CafeStatus{entity.CafeStatusPublished}, nil
	}
	if *status == "" {
		return nil, nil
	}

	parsed := entity.CafeStatus(*status)
	if !parsed.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown listing status")
	}

	return []entity.CafeStatus{parsed}, nil
}

// ListCafes runs the filter pipeline: scalar predicates are pushed into the
// store, then the tag-superset and min-rating filters run over the enriched
// rows in memory.
func (srv *cafeService) ListCafes(ctx context.Context, input usecase.ListCafesInput) ([]*entity.CafeDetails, error) {
	srv.log(ctx).Debug("Listing cafes", slog.String("area", input.Area), slog.String("search", input.Search))

	statuses, err := resolveStatuses(input.Status)
	if err != nil {
		return nil, err
	}

	cafes, err := srv.cafeRepo.List(ctx, repository.CafeQuery{
		Statuses:     statuses,
		Area:         input.Area,
		MaxPriceTier: input.MaxPriceTier,
		RequireWifi:  input.RequireWifi,
		RequirePower: input.RequirePower,
		RequireFood:  input.RequireFood,
		SellsBeans:   input.SellsBeans,
		Search:       input.Search,
	})
	if err != nil {
		srv.log(ctx).Error("Failed to list cafes", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list cafes")
	}

	details, err := srv.enrich(ctx, cafes, input.CallerID)
	if err != nil {
		return nil, err
	}

	// Unknown tag values are dropped, never rejected.
	requiredRoasts := entity.NormalizeRoastLevels(input.RoastLevels)
	requiredBrews := entity.NormalizeBrewMethods(input.BrewMethods)

	result := make([]*entity.CafeDetails, 0, len(details))
	for _, d := range details {
		if !d.Cafe.HasAllRoastLevels(requiredRoasts) || !d.Cafe.HasAllBrewMethods(requiredBrews) {
			continue
		}
		if input.MinRating > 0 && d.AverageRating < input.MinRating {
			continue
		}
		result = append(result, d)
	}

	srv.log(ctx).Debug("Listed cafes", slog.Int("count", len(result)))

	return result, nil
}

// GetCafe fetches one listing with its rating aggregate. Non-published
// listings read as not found unless the caller may see hidden ones.
func (srv *cafeService) GetCafe(ctx context.Context, id uint, callerID uint, includeHidden bool) (*entity.CafeDetails, error) {
	cafe, err := srv.findCafe(ctx, id)
	if err != nil {
		return nil, err
	}

	if cafe.Status != entity.CafeStatusPublished && !includeHidden {
		return nil, errors.Wrap(domainerrors.ErrNotFound, "cafe not found")
	}

	details, err := srv.enrich(ctx, []*entity.Cafe{cafe}, callerID)
	if err != nil {
		return nil, err
	}

	return details[0], nil
}

// enrich attaches rating aggregates and, for an authenticated caller, the
// favorite annotation to each cafe row.
func (srv *cafeService) enrich(ctx context.Context, cafes []*entity.Cafe, callerID uint) ([]*entity.CafeDetails, error) {
	ids := make([]uint, 0, len(cafes))
	for _, c := range cafes {
		ids = append(ids, c.ID)
	}

	aggregates := map[uint]entity.RatingAggregate{}
	if len(ids) > 0 {
		var err error
		aggregates, err = srv.ratingRepo.AggregateByCafeIDs(ctx, ids)
		if err != nil {
			srv.log(ctx).Error("Failed to aggregate ratings", slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to aggregate ratings")
		}
	}

	var favorites map[uint]struct{}
	if callerID != 0 {
		favoriteIDs, err := srv.favoriteRepo.ListCafeIDsByAccount(ctx, callerID)
		if err != nil {
			srv.log(ctx).Error("Failed to list favorites", slog.Any("error", err), slog.Any("account_id", callerID))

			return nil, errors.Wrap(err, "failed to list favorites")
		}
		favorites = make(map[uint]struct{}, len(favoriteIDs))
		for _, id := range favoriteIDs {
			favorites[id] = struct{}{}
		}
	}

	details := make([]*entity.CafeDetails, 0, len(cafes))
	for _, c := range cafes {
		agg := aggregates[c.ID]
		d := &entity.CafeDetails{
			Cafe:          c,
			AverageRating: agg.Average(),
			RatingCount:   agg.Count,
		}
		if callerID != 0 {
			_, marked := favorites[c.ID]
			d.IsFavorite = &marked
		}
		details = append(details, d)
	}

	return details, nil
}

// CreateCafe adds a listing on behalf of an admin.
func (srv *cafeService) CreateCafe(ctx context.Context, input usecase.SaveCafeInput) (*entity.Cafe, error) {
	srv.log(ctx).Info("Creating cafe", slog.String("name", input.Name))

	cafe, err := cafeFromInput(input)
	if err != nil {
		return nil, err
	}

	if err := srv.cafeRepo.Create(ctx, cafe); err != nil {
		srv.log(ctx).Error("Failed to create cafe", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create cafe")
	}
	srv.log(ctx).Info("Created cafe", slog.Any("cafe_id", cafe.ID))

	return cafe, nil
}

// UpdateCafe replaces a listing's fields and tag sets.
func (srv *cafeService) UpdateCafe(ctx context.Context, id uint, input usecase.SaveCafeInput) (*entity.Cafe, error) {
	srv.log(ctx).Info("Updating cafe", slog.Any("cafe_id", id))

	existing, err := srv.findCafe(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := cafeFromInput(input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := srv.cafeRepo.Update(ctx, updated); err != nil {
		srv.log(ctx).Error("Failed to update cafe", slog.Any("error", err), slog.Any("cafe_id", id))

		return nil, errors.Wrap(err, "failed to update cafe")
	}

	return updated, nil
}

// DeleteCafe removes a listing and every row referencing it in one
// transaction, so a partial failure cannot leave orphaned ratings or
// favorites behind.
func (srv *cafeService) DeleteCafe(ctx context.Context, id uint) error {
	srv.log(ctx).Info("Deleting cafe", slog.Any("cafe_id", id))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cafeRepo := repoFactory.CafeRepo()

		if _, err := cafeRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrCafeNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "cafe not found")
			}

			return errors.Wrap(err, "failed to find cafe")
		}

		if err := repoFactory.RatingRepo().DeleteByCafe(ctx, id); err != nil {
			return errors.Wrap(err, "failed to delete cafe ratings")
		}
		if err := repoFactory.FavoriteRepo().DeleteByCafe(ctx, id); err != nil {
			return errors.Wrap(err, "failed to delete cafe favorites")
		}
		if err := cafeRepo.Delete(ctx, id); err != nil {
			return errors.Wrap(err, "failed to delete cafe")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete cafe", slog.Any("error", err), slog.Any("cafe_id", id))

		return errors.Wrap(err, "failed to execute cafe deletion transaction")
	}
	srv.log(ctx).Info("Deleted cafe", slog.Any("cafe_id", id))

	return nil
}

// ImportCafes pulls candidates from the places API and stores the new ones
// as draft listings awaiting review. Candidates within duplicateRadiusMeters
// of an existing listing (or of an earlier candidate) are skipped.
func (srv *cafeService) ImportCafes(ctx context.Context, input usecase.ImportCafesInput) (*usecase.ImportCafesOutput, error) {
	srv.log(ctx).Info("Importing cafes", slog.String("area", input.Area))

	if input.Area == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "import area is required")
	}

	candidates, err := srv.placeSearcher.SearchCafes(ctx, input.Area)
	if err != nil {
		srv.log(ctx).Error("Places search failed", slog.Any("error", err), slog.String("area", input.Area))

		return nil, domainerrors.ErrUpstreamUnavailable.WrapMessage("places search failed")
	}

	// All statuses: a draft or archived listing still blocks a re-import.
	existing, err := srv.cafeRepo.List(ctx, repository.CafeQuery{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list existing cafes")
	}

	occupied := make([]orb.Point, 0, len(existing))
	for _, c := range existing {
		occupied = append(occupied, orb.Point{c.Longitude, c.Latitude})
	}

	output := &usecase.ImportCafesOutput{}
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cafeRepo := repoFactory.CafeRepo()

		for _, candidate := range candidates {
			if nearAny(candidate.Location, occupied) {
				output.Skipped++

				continue
			}

			cafe := &entity.Cafe{
				Name:      candidate.Name,
				Address:   candidate.Address,
				Area:      input.Area,
				Latitude:  candidate.Location.Lat(),
				Longitude: candidate.Location.Lon(),
				PriceTier: candidate.PriceTier,
				Status:    entity.CafeStatusDraft,
			}
			if err := cafeRepo.Create(ctx, cafe); err != nil {
				return errors.Wrapf(err, "failed to import cafe %q", candidate.Name)
			}

			occupied = append(occupied, candidate.Location)
			output.Imported++
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to import cafes", slog.Any("error", err), slog.String("area", input.Area))

		return nil, errors.Wrap(err, "failed to execute cafe import transaction")
	}
	srv.log(ctx).Info("Imported cafes", slog.Int("imported", output.Imported), slog.Int("skipped", output.Skipped))

	return output, nil
}

// nearAny reports whether p lies within the duplicate radius of any point.
func nearAny(p orb.Point, points []orb.Point) bool {
	for _, q := range points {
		if geo.Distance(p, q) < duplicateRadiusMeters {
			return true
		}
	}

	return false
}

func (srv *cafeService) findCafe(ctx context.Context, id uint) (*entity.Cafe, error) {
	cafe, err := srv.cafeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCafeNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "cafe not found")
		}
		srv.log(ctx).Error("Failed to find cafe", slog.Any("error", err), slog.Any("cafe_id", id))

		return nil, errors.Wrap(err, "failed to find cafe")
	}

	return cafe, nil
}

// cafeFromInput validates an admin payload and maps it onto a cafe entity.
func cafeFromInput(input usecase.SaveCafeInput) (*entity.Cafe, error) {
	if input.Name == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "cafe name is required")
	}
	if input.PriceTier < 1 || input.PriceTier > 4 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "price tier must be between 1 and 4")
	}

	status := entity.CafeStatus(input.Status)
	if input.Status == "" {
		status = entity.CafeStatusDraft
	}
	if !status.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown listing status")
	}

	return &entity.Cafe{
		Name:        input.Name,
		Description: input.Description,
		Address:     input.Address,
		Area:        input.Area,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		PriceTier:   input.PriceTier,
		HasWifi:     input.HasWifi,
		HasPower:    input.HasPower,
		ServesFood:  input.ServesFood,
		SellsBeans:  input.SellsBeans,
		Status:      status,
		RoastLevels: entity.NormalizeRoastLevels(input.RoastLevels),
		BrewMethods: entity.NormalizeBrewMethods(input.BrewMethods),
	}, nil
}
