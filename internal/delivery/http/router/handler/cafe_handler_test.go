package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "github.com/dabinj96/Peaberry-sub000/internal/delivery/context"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
	"github.com/dabinj96/Peaberry-sub000/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureCafeUsecase records the inputs the handler forwards.
type captureCafeUsecase struct {
	usecase.CafeUsecase

	listInput usecase.ListCafesInput
}

func (u *captureCafeUsecase) ListCafes(_ context.Context, input usecase.ListCafesInput) ([]*entity.CafeDetails, error) {
	u.listInput = input

	return []*entity.CafeDetails{}, nil
}

func listCafesRequest(t *testing.T, query string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cafes"+query, nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestCafeHandler_ListCafes_StatusIgnoredForAnonymous(t *testing.T) {
	uc := &captureCafeUsecase{}
	h := NewCafeHandler(uc, slog.New(slog.DiscardHandler))

	c, rec := listCafesRequest(t, "?status=draft")
	require.NoError(t, h.ListCafes(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, uc.listInput.Status, "anonymous callers cannot widen visibility")
	assert.Zero(t, uc.listInput.CallerID)
}

func TestCafeHandler_ListCafes_StatusIgnoredForRegularUser(t *testing.T) {
	uc := &captureCafeUsecase{}
	h := NewCafeHandler(uc, slog.New(slog.DiscardHandler))

	c, _ := listCafesRequest(t, "?status=")
	deliverycontext.SetCaller(c, 7, entity.RoleUser)
	require.NoError(t, h.ListCafes(c))

	assert.Nil(t, uc.listInput.Status)
	assert.Equal(t, uint(7), uc.listInput.CallerID)
}

func TestCafeHandler_ListCafes_StatusForwardedForAdmin(t *testing.T) {
	uc := &captureCafeUsecase{}
	h := NewCafeHandler(uc, slog.New(slog.DiscardHandler))

	c, _ := listCafesRequest(t, "?status=draft")
	deliverycontext.SetCaller(c, 1, entity.RoleAdmin)
	require.NoError(t, h.ListCafes(c))

	require.NotNil(t, uc.listInput.Status)
	assert.Equal(t, "draft", *uc.listInput.Status)

	// An explicitly empty status means every status, and it still reaches
	// the usecase as a non-nil pointer.
	c, _ = listCafesRequest(t, "?status=")
	deliverycontext.SetCaller(c, 1, entity.RoleAdmin)
	require.NoError(t, h.ListCafes(c))

	require.NotNil(t, uc.listInput.Status)
	assert.Empty(t, *uc.listInput.Status)

	// Absent entirely stays nil even for admins.
	c, _ = listCafesRequest(t, "")
	deliverycontext.SetCaller(c, 1, entity.RoleAdmin)
	require.NoError(t, h.ListCafes(c))

	assert.Nil(t, uc.listInput.Status)
}

func TestCafeHandler_ListCafes_SellsBeansTriState(t *testing.T) {
	uc := &captureCafeUsecase{}
	h := NewCafeHandler(uc, slog.New(slog.DiscardHandler))

	c, _ := listCafesRequest(t, "")
	require.NoError(t, h.ListCafes(c))
	assert.Nil(t, uc.listInput.SellsBeans, "absent parameter means no filter")

	c, _ = listCafesRequest(t, "?sells_beans=true")
	require.NoError(t, h.ListCafes(c))
	require.NotNil(t, uc.listInput.SellsBeans)
	assert.True(t, *uc.listInput.SellsBeans)

	c, _ = listCafesRequest(t, "?sells_beans=false")
	require.NoError(t, h.ListCafes(c))
	require.NotNil(t, uc.listInput.SellsBeans)
	assert.False(t, *uc.listInput.SellsBeans)
}

func TestCafeHandler_ListCafes_FilterParsing(t *testing.T) {
	uc := &captureCafeUsecase{}
	h := NewCafeHandler(uc, slog.New(slog.DiscardHandler))

	c, _ := listCafesRequest(t, "?area=mission&wifi=1&max_price_tier=2&min_rating=4&roast_levels=light,%20dark&q=espresso")
	require.NoError(t, h.ListCafes(c))

	input := uc.listInput
	assert.Equal(t, "mission", input.Area)
	assert.True(t, input.RequireWifi)
	assert.False(t, input.RequirePower)
	assert.Equal(t, 2, input.MaxPriceTier)
	assert.Equal(t, 4.0, input.MinRating)
	assert.Equal(t, []string{"light", "dark"}, input.RoastLevels)
	assert.Equal(t, "espresso", input.Search)
}

func TestCafeHandler_ListCafes_BadPriceTier(t *testing.T) {
	uc := &captureCafeUsecase{}
	h := NewCafeHandler(uc, slog.New(slog.DiscardHandler))

	c, rec := listCafesRequest(t, "?max_price_tier=cheap")
	require.NoError(t, h.ListCafes(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = listCafesRequest(t, "?min_rating=high")
	require.NoError(t, h.ListCafes(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
