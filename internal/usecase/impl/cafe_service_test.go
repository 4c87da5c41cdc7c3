package impl

import (
	"context"
	"testing"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
	domainerrors "github.com/dabinj96/Peaberry-sub000/internal/domain/errors"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/service"
	"github.com/dabinj96/Peaberry-sub000/internal/usecase"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCafeServiceForTest(factory *fakeRepoFactory, tx *fakeTxManager, searcher service.PlaceSearcher) usecase.CafeUsecase {
	if searcher == nil {
		searcher = &fakePlaceSearcher{}
	}

	return NewCafeService(CafeServiceParams{
		TxManager:     tx,
		CafeRepo:      factory.cafes,
		RatingRepo:    factory.ratings,
		FavoriteRepo:  factory.favorites,
		PlaceSearcher: searcher,
		Logger:        testLogger(),
	})
}

func seedCafe(factory *fakeRepoFactory, cafe *entity.Cafe) *entity.Cafe {
	return factory.cafes.add(cafe)
}

func TestCafeService_ListCafes_DefaultsToPublished(t *testing.T) {
	factory, tx := newFakeStore()
	svc := newCafeServiceForTest(factory, tx, nil)

	seedCafe(factory, &entity.Cafe{Name: "Published", Status: entity.CafeStatusPublished, PriceTier: 2})
	seedCafe(factory, &entity.Cafe{Name: "Draft", Status: entity.CafeStatusDraft, PriceTier: 2})
	seedCafe(factory, &entity.Cafe{Name: "Archived", Status: entity.CafeStatusArchived, PriceTier: 2})

	details, err := svc.ListCafes(context.Background(), usecase.ListCafesInput{})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Published", details[0].Cafe.Name)
	assert.Nil(t, details[0].IsFavorite, "anonymous callers get no favorite annotation")
}

func TestCafeService_ListCafes_StatusTriState(t *testing.T) {
	factory, tx := newFakeStore()
	svc := newCafeServiceForTest(factory, tx, nil)

	seedCafe(factory, &entity.Cafe{Name: "Published", Status: entity.CafeStatusPublished, PriceTier: 2})
	seedCafe(factory, &entity.Cafe{Name: "Draft", Status: entity.CafeStatusDraft, PriceTier: 2})
	seedCafe(factory, &entity.Cafe{Name: "Archived", Status: entity.CafeStatusArchived, PriceTier: 2})

	// Explicitly empty lifts the restriction entirely.
	all := ""
	details, err := svc.ListCafes(context.Background(), usecase.ListCafesInput{Status: &all})
	require.NoError(t, err)
	assert.Len(t, details, 3)

	// A concrete value selects exactly that status.
	draft := "draft"
	details, err = svc.ListCafes(context.Background(), usecase.ListCafesInput{Status: &draft})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Draft", details[0].Cafe.Name)

	// Unknown values are rejected, not silently widened.
	bogus := "pending"
	_, err = svc.ListCafes(context.Background(), usecase.ListCafesInput{Status: &bogus})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestCafeService_ListCafes_ScalarFilters(t *testing.T) {
	factory, tx := newFakeStore()
	svc := newCafeServiceForTest(factory, tx, nil)

	seedCafe(factory, &entity.Cafe{
		Name: "Corner Beans", Area: "mission", PriceTier: 2,
		HasWifi: true, SellsBeans: true, Status: entity.CafeStatusPublished,
	})
	seedCafe(factory, &entity.Cafe{
		Name: "Fancy Pour", Area: "mission", PriceTier: 4,
		HasWifi: true, SellsBeans: true, Status: entity.CafeStatusPublished,
	})
	seedCafe(factory, &entity.Cafe{
		Name: "No Wifi Here", Area: "mission", PriceTier: 1,
		SellsBeans: true, Status: entity.CafeStatusPublished,
	})
	seedCafe(factory, &entity.Cafe{
		Name: "Other Side", Area: "soma", PriceTier: 1,
		HasWifi: true, SellsBeans: true, Status: entity.CafeStatusPublished,
	})

	sellsBeans := true
	details, err := svc.ListCafes(context.Background(), usecase.ListCafesInput{
		Area:         "mission",
		MaxPriceTier: 3,
		RequireWifi:  true,
		SellsBeans:   &sellsBeans,
	})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Corner Beans", details[0].Cafe.Name)
}

func TestCafeService_ListCafes_Search(t *testing.T) {
	factory, tx := newFakeStore()
	svc := newCafeServiceForTest(factory, tx, nil)

	seedCafe(factory, &entity.Cafe{Name: "Blue Bottle", Description: "minimal", PriceTier: 3, Status: entity.CafeStatusPublished})
	seedCafe(factory, &entity.Cafe{Name: "Backyard", Description: "big blue mugs", PriceTier: 1, Status: entity.CafeStatusPublished})
	seedCafe(factory, &entity.Cafe{Name: "Roast House", PriceTier: 1, Status: entity.CafeStatusPublished})

	details, err := svc.ListCafes(context.Background(), usecase.ListCafesInput{Search: "BLUE"})
	require.NoError(t, err)
	assert.Len(t, details, 2, "search is case-insensitive and spans name and description")
}

func TestCafeService_ListCafes_TagSupersetFilter(t *testing.T) {
	factory, tx := newFakeStore()
	svc := newCafeServiceForTest(factory, tx, nil)

	seedCafe(factory, &entity.Cafe{
		Name: "Full Range", PriceTier: 2, Status: entity.CafeStatusPublished,
		RoastLevels: []entity.RoastLevel{entity.RoastLight, entity.RoastDark},
		BrewMethods: []entity.BrewMethod{entity.BrewEspresso, entity.BrewPourOver},
	})
	seedCafe(factory, &entity.Cafe{
		Name: "Light Only", PriceTier: 2, Status: entity.CafeStatusPublished,
		RoastLevels: []entity.RoastLevel{entity.RoastLight},
		BrewMethods: []entity.BrewMethod{entity.BrewEspresso},
	})

	// A cafe must carry every requested tag.
	details, err := svc.ListCafes(context.Background(), usecase.ListCafesInput{
		RoastLevels: []string{"light", "dark"},
	})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Full Range", details[0].Cafe.Name)

	// Unknown tag values are dropped, leaving the remaining constraint.
	details, err = svc.ListCafes(context.Background(), usecase.ListCafesInput{
		RoastLevels: []string{"light", "nuclear"},
	})
	require.NoError(t, err)
	assert.Len(t, details, 2)
}

func TestCafeService_ListCafes_MinRating(t *testing.T) {
	factory, tx := newFakeStore()
	svc := newCafeServiceForTest(factory, tx, nil)

	rated := seedCafe(factory, &entity.Cafe{Name: "Well Rated", PriceTier: 2, Status: entity.CafeStatusPublished})
	mediocre := seedCafe(factory, &entity.Cafe{Name: "Mediocre", PriceTier: 2, Status: entity.CafeStatusPublished})
	seedCafe(factory, &entity.Cafe{Name: "Unrated", PriceTier: 2, Status: entity.CafeStatusPublished})

	require.NoError(t, factory.ratings.Upsert(context.Background(), &entity.Rating{AccountID: 1, CafeID: rated.ID, Score: 4}))
	require.NoError(t, factory.ratings.Upsert(context.Background(), &entity.Rating{AccountID: 2, CafeID: rated.ID, Score: 5}))
	require.NoError(t, factory.ratings.Upsert(context.Background(), &entity.Rating{AccountID: 1, CafeID: mediocre.ID, Score: 3}))

	details, err := svc.ListCafes(context.Background(), usecase.ListCafesInput{MinRating: 4})
	require.NoError(t, err)
	require.Len(t, details, 1, "minimum rating excludes both low-rated and unrated cafes")
	assert.Equal(t, "Well Rated", details[0].Cafe.Name)
	assert.Equal(t, 4.5, details[0].AverageRating)
	assert.Equal(t, 2, details[0].RatingCount)
}

func TestCafeService_ListCafes_FavoriteAnnotation(t *testing.T) {
	factory, tx := newFakeStore()
	svc := newCafeServiceForTest(factory, tx, nil)

	liked := seedCafe(factory, &entity.Cafe{Name: "Liked", PriceTier: 2, Status: entity.CafeStatusPublished})
	seedCafe(factory, &entity.Cafe{Name: "Not Liked", PriceTier: 2, Status: entity.CafeStatusPublished})

	require.NoError(t, factory.favorites.Add(context.Background(), 7, liked.ID))

	details, err := svc.ListCafes(context.Background(), usecase.ListCafesInput{CallerID: 7})
	require.NoError(t, err)
	require.Len(t, details, 2)

	for _, d := range details {
		require.NotNil(t, d.IsFavorite)
		assert.Equal(t, d.Cafe.ID == liked.ID, *d.IsFavorite)
	}
}

func TestCafeService_GetCafe_HiddenListings(t *testing.T) {
	factory, tx := newFakeStore()
	svc := newCafeServiceForTest(factory, tx, nil)

	draft := seedCafe(factory, &entity.Cafe{Name: "Draft", PriceTier: 2, Status: entity.CafeStatusDraft})

	_, err := svc.GetCafe(context.Background(), draft.ID, 0, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound), "hidden listings read as missing for the public")

	details, err := svc.GetCafe(context.Background(), draft.ID, 0, true)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, details.Cafe.ID)

	_, err = svc.GetCafe(context.Background(), 999, 0, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestCafeService_CreateCafe_Validation(t *testing.T) {
	factory, tx := newFakeStore()
	svc := newCafeServiceForTest(factory, tx, nil)

	_, err := svc.CreateCafe(context.Background(), usecase.SaveCafeInput{PriceTier: 2})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed), "name is required")

	_, err = svc.CreateCafe(context.Background(), usecase.SaveCafeInput{Name: "X", PriceTier: 9})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed), "price tier is bounded")

	_, err = svc.CreateCafe(context.Background(), usecase.SaveCafeInput{Name: "X", PriceTier: 2, Status: "pending"})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed), "status comes from the closed enumeration")

	cafe, err := svc.CreateCafe(context.Background(), usecase.SaveCafeInput{
		Name:        "X",
		PriceTier:   2,
		RoastLevels: []string{"light", "bogus"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CafeStatusDraft, cafe.Status, "new listings default to draft")
	assert.Equal(t, []entity.RoastLevel{entity.RoastLight}, cafe.RoastLevels, "unknown tags are dropped")
	assert.NotZero(t, cafe.ID)
}

func TestCafeService_UpdateCafe_ReplacesFields(t *testing.T) {
	factory, tx := newFakeStore()
	svc := newCafeServiceForTest(factory, tx, nil)

	existing := seedCafe(factory, &entity.Cafe{
		Name: "Old Name", PriceTier: 1, Status: entity.CafeStatusPublished,
		RoastLevels: []entity.RoastLevel{entity.RoastLight},
	})

	updated, err := svc.UpdateCafe(context.Background(), existing.ID, usecase.SaveCafeInput{
		Name:        "New Name",
		PriceTier:   3,
		Status:      "archived",
		RoastLevels: []string{"dark"},
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, updated.ID)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, entity.CafeStatusArchived, updated.Status)
	assert.Equal(t, []entity.RoastLevel{entity.RoastDark}, updated.RoastLevels)

	_, err = svc.UpdateCafe(context.Background(), 999, usecase.SaveCafeInput{Name: "X", PriceTier: 2})
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestCafeService_DeleteCafe_CascadesRatingsAndFavorites(t *testing.T) {
	factory, tx := newFakeStore()
	svc := newCafeServiceForTest(factory, tx, nil)

	cafe := seedCafe(factory, &entity.Cafe{Name: "Doomed", PriceTier: 2, Status: entity.CafeStatusPublished})
	other := seedCafe(factory, &entity.Cafe{Name: "Survivor", PriceTier: 2, Status: entity.CafeStatusPublished})

	ctx := context.Background()
	require.NoError(t, factory.ratings.Upsert(ctx, &entity.Rating{AccountID: 1, CafeID: cafe.ID, Score: 5}))
	require.NoError(t, factory.ratings.Upsert(ctx, &entity.Rating{AccountID: 1, CafeID: other.ID, Score: 4}))
	require.NoError(t, factory.favorites.Add(ctx, 1, cafe.ID))
	require.NoError(t, factory.favorites.Add(ctx, 1, other.ID))

	require.NoError(t, svc.DeleteCafe(ctx, cafe.ID))

	_, err := factory.cafes.FindByID(ctx, cafe.ID)
	assert.Error(t, err)

	ratings, err := factory.ratings.ListByCafe(ctx, cafe.ID)
	require.NoError(t, err)
	assert.Empty(t, ratings)

	ids, err := factory.favorites.ListCafeIDsByAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{other.ID}, ids, "only the deleted cafe's rows are removed")

	err = svc.DeleteCafe(ctx, 999)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestCafeService_ImportCafes_DeduplicatesByDistance(t *testing.T) {
	factory, tx := newFakeStore()

	// Existing listing at the origin; candidates land on top of it, right
	// next to each other, and far away.
	seedCafe(factory, &entity.Cafe{
		Name: "Existing", PriceTier: 2, Status: entity.CafeStatusPublished,
		Latitude: 37.7749, Longitude: -122.4194,
	})

	searcher := &fakePlaceSearcher{candidates: []service.PlaceCandidate{
		{Name: "Duplicate Of Existing", Location: orb.Point{-122.4194, 37.77495}, PriceTier: 2},
		{Name: "Fresh", Location: orb.Point{-122.4294, 37.7849}, PriceTier: 3},
		{Name: "Duplicate Of Fresh", Location: orb.Point{-122.4294, 37.78495}, PriceTier: 1},
	}}
	svc := newCafeServiceForTest(factory, tx, searcher)

	output, err := svc.ImportCafes(context.Background(), usecase.ImportCafesInput{Area: "mission"})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Imported)
	assert.Equal(t, 2, output.Skipped)

	all := ""
	listed, err := newCafeServiceForTest(factory, tx, searcher).ListCafes(context.Background(), usecase.ListCafesInput{Status: &all})
	require.NoError(t, err)
	require.Len(t, listed, 2)

	var imported *entity.Cafe
	for _, d := range listed {
		if d.Cafe.Name == "Fresh" {
			imported = d.Cafe
		}
	}
	require.NotNil(t, imported)
	assert.Equal(t, entity.CafeStatusDraft, imported.Status, "imports land as drafts awaiting review")
	assert.Equal(t, "mission", imported.Area)
}

func TestCafeService_ImportCafes_UpstreamFailure(t *testing.T) {
	factory, tx := newFakeStore()
	searcher := &fakePlaceSearcher{searchErr: errors.New("places API down")}
	svc := newCafeServiceForTest(factory, tx, searcher)

	_, err := svc.ImportCafes(context.Background(), usecase.ImportCafesInput{Area: "mission"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUpstreamUnavailable))

	_, err = svc.ImportCafes(context.Background(), usecase.ImportCafesInput{})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}
