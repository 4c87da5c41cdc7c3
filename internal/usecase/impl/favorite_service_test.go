package impl

import (
	"context"
	"testing"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
	domainerrors "github.com/dabinj96/Peaberry-sub000/internal/domain/errors"
	"github.com/dabinj96/Peaberry-sub000/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFavoriteServiceForTest(factory *fakeRepoFactory, tx *fakeTxManager) usecase.FavoriteUsecase {
	return NewFavoriteService(FavoriteServiceParams{
		TxManager:    tx,
		CafeRepo:     factory.cafes,
		RatingRepo:   factory.ratings,
		FavoriteRepo: factory.favorites,
		Logger:       testLogger(),
	})
}

func TestFavoriteService_AddFavorite_Idempotent(t *testing.T) {
	factory, tx := newFakeStore()
	svc := newFavoriteServiceForTest(factory, tx)

	cafe := factory.cafes.add(&entity.Cafe{Name: "Liked", PriceTier: 2, Status: entity.CafeStatusPublished})

	ctx := context.Background()
	require.NoError(t, svc.AddFavorite(ctx, 1, cafe.ID))
	require.NoError(t, svc.AddFavorite(ctx, 1, cafe.ID), "repeating the call is a no-op")

	ids, err := factory.favorites.ListCafeIDsByAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{cafe.ID}, ids)
}

func TestFavoriteService_AddFavorite_UnpublishedCafe(t *testing.T) {
	factory, tx := newFakeStore()
	svc := newFavoriteServiceForTest(factory, tx)

	draft := factory.cafes.add(&entity.Cafe{Name: "Draft", PriceTier: 2, Status: entity.CafeStatusDraft})

	err := svc.AddFavorite(context.Background(), 1, draft.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound), "hidden listings cannot be favorited")

	err = svc.AddFavorite(context.Background(), 1, 999)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestFavoriteService_RemoveFavorite(t *testing.T) {
	factory, tx := newFakeStore()
	svc := newFavoriteServiceForTest(factory, tx)

	cafe := factory.cafes.add(&entity.Cafe{Name: "Liked", PriceTier: 2, Status: entity.CafeStatusPublished})

	ctx := context.Background()
	require.NoError(t, svc.AddFavorite(ctx, 1, cafe.ID))
	require.NoError(t, svc.RemoveFavorite(ctx, 1, cafe.ID))

	err := svc.RemoveFavorite(ctx, 1, cafe.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound), "removing an absent bookmark is an error")
}

func TestFavoriteService_ListFavorites(t *testing.T) {
	factory, tx := newFakeStore()
	svc := newFavoriteServiceForTest(factory, tx)

	ctx := context.Background()
	liked := factory.cafes.add(&entity.Cafe{Name: "Liked", PriceTier: 2, Status: entity.CafeStatusPublished})
	also := factory.cafes.add(&entity.Cafe{Name: "Also Liked", PriceTier: 1, Status: entity.CafeStatusPublished})
	factory.cafes.add(&entity.Cafe{Name: "Ignored", PriceTier: 1, Status: entity.CafeStatusPublished})

	require.NoError(t, svc.AddFavorite(ctx, 1, liked.ID))
	require.NoError(t, svc.AddFavorite(ctx, 1, also.ID))
	require.NoError(t, factory.ratings.Upsert(ctx, &entity.Rating{AccountID: 2, CafeID: liked.ID, Score: 4}))

	details, err := svc.ListFavorites(ctx, 1)
	require.NoError(t, err)
	require.Len(t, details, 2)

	byName := map[string]*entity.CafeDetails{}
	for _, d := range details {
		require.NotNil(t, d.IsFavorite)
		assert.True(t, *d.IsFavorite)
		byName[d.Cafe.Name] = d
	}
	assert.Equal(t, 4.0, byName["Liked"].AverageRating)
	assert.Equal(t, 1, byName["Liked"].RatingCount)
	assert.Equal(t, 0.0, byName["Also Liked"].AverageRating)

	// A favorite referencing a concurrently deleted cafe is skipped.
	require.NoError(t, factory.cafes.Delete(ctx, also.ID))
	details, err = svc.ListFavorites(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, details, 1)

	empty, err := svc.ListFavorites(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
