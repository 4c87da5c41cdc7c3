package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
	domainerrors "github.com/dabinj96/Peaberry-sub000/internal/domain/errors"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/repository"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/service"

	"github.com/pkg/errors"
)

// The fakes below back every service test in this package with in-memory
// state that mirrors the store semantics: unique constraints surface as
// Conflict, upserts replace, deletes cascade only when the services ask.

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// --- transaction manager ---

type fakeTxManager struct {
	factory repository.RepositoryFactory
	// failWith, when set, makes Execute fail before running fn.
	failWith error
}

func (tm *fakeTxManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	if tm.failWith != nil {
		return tm.failWith
	}

	return fn(tm.factory)
}

type fakeRepoFactory struct {
	accounts      *fakeAccountRepo
	cafes         *fakeCafeRepo
	ratings       *fakeRatingRepo
	favorites     *fakeFavoriteRepo
	refreshTokens *fakeRefreshTokenRepo
	resetTokens   *fakeResetTokenRepo
}

func (f *fakeRepoFactory) AccountRepo() repository.AccountRepository {
	return f.accounts
}

func (f *fakeRepoFactory) CafeRepo() repository.CafeRepository {
	return f.cafes
}

func (f *fakeRepoFactory) RatingRepo() repository.RatingRepository {
	return f.ratings
}

func (f *fakeRepoFactory) FavoriteRepo() repository.FavoriteRepository {
	return f.favorites
}

func (f *fakeRepoFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return f.refreshTokens
}

func (f *fakeRepoFactory) ResetTokenRepo() repository.ResetTokenRepository {
	return f.resetTokens
}

// newFakeStore builds the full fake repository set plus a tx manager over it.
func newFakeStore() (*fakeRepoFactory, *fakeTxManager) {
	factory := &fakeRepoFactory{
		accounts:      &fakeAccountRepo{byID: map[uint]*entity.Account{}},
		cafes:         &fakeCafeRepo{byID: map[uint]*entity.Cafe{}},
		ratings:       &fakeRatingRepo{},
		favorites:     &fakeFavoriteRepo{},
		refreshTokens: &fakeRefreshTokenRepo{byHash: map[string]*entity.RefreshToken{}},
		resetTokens:   &fakeResetTokenRepo{byHash: map[string]*entity.PasswordResetToken{}},
	}

	return factory, &fakeTxManager{factory: factory}
}

// --- account repository ---

type fakeAccountRepo struct {
	byID   map[uint]*entity.Account
	nextID uint
}

func (r *fakeAccountRepo) FindByID(ctx context.Context, id uint) (*entity.Account, error) {
	if a, ok := r.byID[id]; ok {
		clone := *a

		return &clone, nil
	}

	return nil, repository.ErrAccountNotFound
}

func (r *fakeAccountRepo) FindByHandle(ctx context.Context, handle string) (*entity.Account, error) {
	for _, a := range r.byID {
		if a.Handle == handle {
			clone := *a

			return &clone, nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (r *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	for _, a := range r.byID {
		if a.Email == email {
			clone := *a

			return &clone, nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (r *fakeAccountRepo) FindByProvider(ctx context.Context, providerName, providerUID string) (*entity.Account, error) {
	for _, a := range r.byID {
		if a.ProviderName == providerName && a.ProviderUID == providerUID {
			clone := *a

			return &clone, nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *entity.Account) error {
	for _, a := range r.byID {
		if a.Handle == account.Handle || a.Email == account.Email {
			return domainerrors.ErrConflict.WrapMessage("handle, email or provider identity already taken")
		}
		if account.ProviderName != "" && a.ProviderName == account.ProviderName && a.ProviderUID == account.ProviderUID {
			return domainerrors.ErrConflict.WrapMessage("handle, email or provider identity already taken")
		}
	}

	r.nextID++
	account.ID = r.nextID
	account.CreatedAt = time.Now()
	clone := *account
	r.byID[account.ID] = &clone

	return nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, account *entity.Account) error {
	if _, ok := r.byID[account.ID]; !ok {
		return repository.ErrAccountNotFound
	}
	clone := *account
	r.byID[account.ID] = &clone

	return nil
}

func (r *fakeAccountRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.byID[id]; !ok {
		return repository.ErrAccountNotFound
	}
	delete(r.byID, id)

	return nil
}

// --- cafe repository ---

type fakeCafeRepo struct {
	byID   map[uint]*entity.Cafe
	nextID uint
}

func (r *fakeCafeRepo) add(cafe *entity.Cafe) *entity.Cafe {
	if cafe.ID == 0 {
		r.nextID++
		cafe.ID = r.nextID
	} else if cafe.ID > r.nextID {
		r.nextID = cafe.ID
	}
	clone := *cafe
	r.byID[cafe.ID] = &clone

	return cafe
}

func (r *fakeCafeRepo) FindByID(ctx context.Context, id uint) (*entity.Cafe, error) {
	if c, ok := r.byID[id]; ok {
		clone := *c

		return &clone, nil
	}

	return nil, repository.ErrCafeNotFound
}

func (r *fakeCafeRepo) List(ctx context.Context, query repository.CafeQuery) ([]*entity.Cafe, error) {
	matches := make([]*entity.Cafe, 0, len(r.byID))
	for id := uint(1); id <= r.nextID; id++ {
		c, ok := r.byID[id]
		if !ok || !matchesQuery(c, query) {
			continue
		}
		clone := *c
		matches = append(matches, &clone)
	}

	return matches, nil
}

func matchesQuery(c *entity.Cafe, q repository.CafeQuery) bool {
	if len(q.Statuses) > 0 {
		found := false
		for _, s := range q.Statuses {
			if c.Status == s {
				found = true

				break
			}
		}
		if !found {
			return false
		}
	}
	if q.Area != "" && c.Area != q.Area {
		return false
	}
	if q.MaxPriceTier > 0 && c.PriceTier > q.MaxPriceTier {
		return false
	}
	if q.RequireWifi && !c.HasWifi {
		return false
	}
	if q.RequirePower && !c.HasPower {
		return false
	}
	if q.RequireFood && !c.ServesFood {
		return false
	}
	if q.SellsBeans != nil && c.SellsBeans != *q.SellsBeans {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		haystack := strings.ToLower(c.Name + " " + c.Description + " " + c.Area + " " + c.Address)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}

	return true
}

func (r *fakeCafeRepo) Create(ctx context.Context, cafe *entity.Cafe) error {
	r.add(cafe)

	return nil
}

func (r *fakeCafeRepo) Update(ctx context.Context, cafe *entity.Cafe) error {
	if _, ok := r.byID[cafe.ID]; !ok {
		return repository.ErrCafeNotFound
	}
	clone := *cafe
	r.byID[cafe.ID] = &clone

	return nil
}

func (r *fakeCafeRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.byID[id]; !ok {
		return repository.ErrCafeNotFound
	}
	delete(r.byID, id)

	return nil
}

// --- rating repository ---

type fakeRatingRepo struct {
	ratings []*entity.Rating
	nextID  uint
}

func (r *fakeRatingRepo) Upsert(ctx context.Context, rating *entity.Rating) error {
	for _, existing := range r.ratings {
		if existing.AccountID == rating.AccountID && existing.CafeID == rating.CafeID {
			existing.Score = rating.Score
			existing.Review = rating.Review
			existing.UpdatedAt = time.Now()
			rating.ID = existing.ID

			return nil
		}
	}

	r.nextID++
	rating.ID = r.nextID
	clone := *rating
	r.ratings = append(r.ratings, &clone)

	return nil
}

func (r *fakeRatingRepo) FindByAccountAndCafe(ctx context.Context, accountID, cafeID uint) (*entity.Rating, error) {
	for _, existing := range r.ratings {
		if existing.AccountID == accountID && existing.CafeID == cafeID {
			clone := *existing

			return &clone, nil
		}
	}

	return nil, repository.ErrRatingNotFound
}

func (r *fakeRatingRepo) ListByCafe(ctx context.Context, cafeID uint) ([]*entity.Rating, error) {
	result := make([]*entity.Rating, 0)
	for _, existing := range r.ratings {
		if existing.CafeID == cafeID {
			clone := *existing
			result = append(result, &clone)
		}
	}

	return result, nil
}

func (r *fakeRatingRepo) ListByAccount(ctx context.Context, accountID uint) ([]*entity.Rating, error) {
	result := make([]*entity.Rating, 0)
	for _, existing := range r.ratings {
		if existing.AccountID == accountID {
			clone := *existing
			result = append(result, &clone)
		}
	}

	return result, nil
}

func (r *fakeRatingRepo) AggregateByCafeIDs(ctx context.Context, cafeIDs []uint) (map[uint]entity.RatingAggregate, error) {
	wanted := make(map[uint]struct{}, len(cafeIDs))
	for _, id := range cafeIDs {
		wanted[id] = struct{}{}
	}

	result := make(map[uint]entity.RatingAggregate)
	for _, existing := range r.ratings {
		if _, ok := wanted[existing.CafeID]; !ok {
			continue
		}
		agg := result[existing.CafeID]
		agg.Sum += existing.Score
		agg.Count++
		result[existing.CafeID] = agg
	}

	return result, nil
}

func (r *fakeRatingRepo) DeleteByAccount(ctx context.Context, accountID uint) error {
	kept := r.ratings[:0]
	for _, existing := range r.ratings {
		if existing.AccountID != accountID {
			kept = append(kept, existing)
		}
	}
	r.ratings = kept

	return nil
}

func (r *fakeRatingRepo) DeleteByCafe(ctx context.Context, cafeID uint) error {
	kept := r.ratings[:0]
	for _, existing := range r.ratings {
		if existing.CafeID != cafeID {
			kept = append(kept, existing)
		}
	}
	r.ratings = kept

	return nil
}

// --- favorite repository ---

type favoriteKey struct {
	accountID uint
	cafeID    uint
}

type fakeFavoriteRepo struct {
	pairs []favoriteKey
}

func (r *fakeFavoriteRepo) Add(ctx context.Context, accountID, cafeID uint) error {
	for _, p := range r.pairs {
		if p.accountID == accountID && p.cafeID == cafeID {
			return nil
		}
	}
	r.pairs = append(r.pairs, favoriteKey{accountID: accountID, cafeID: cafeID})

	return nil
}

func (r *fakeFavoriteRepo) Remove(ctx context.Context, accountID, cafeID uint) error {
	for i, p := range r.pairs {
		if p.accountID == accountID && p.cafeID == cafeID {
			r.pairs = append(r.pairs[:i], r.pairs[i+1:]...)

			return nil
		}
	}

	return repository.ErrFavoriteNotFound
}

func (r *fakeFavoriteRepo) ListCafeIDsByAccount(ctx context.Context, accountID uint) ([]uint, error) {
	ids := make([]uint, 0)
	for _, p := range r.pairs {
		if p.accountID == accountID {
			ids = append(ids, p.cafeID)
		}
	}

	return ids, nil
}

func (r *fakeFavoriteRepo) DeleteByAccount(ctx context.Context, accountID uint) error {
	kept := r.pairs[:0]
	for _, p := range r.pairs {
		if p.accountID != accountID {
			kept = append(kept, p)
		}
	}
	r.pairs = kept

	return nil
}

func (r *fakeFavoriteRepo) DeleteByCafe(ctx context.Context, cafeID uint) error {
	kept := r.pairs[:0]
	for _, p := range r.pairs {
		if p.cafeID != cafeID {
			kept = append(kept, p)
		}
	}
	r.pairs = kept

	return nil
}

// --- token repositories ---

type fakeRefreshTokenRepo struct {
	byHash map[string]*entity.RefreshToken
	nextID uint
}

func (r *fakeRefreshTokenRepo) Create(ctx context.Context, token *entity.RefreshToken) error {
	r.nextID++
	token.ID = r.nextID
	clone := *token
	r.byHash[token.TokenHash] = &clone

	return nil
}

func (r *fakeRefreshTokenRepo) FindByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	token, ok := r.byHash[tokenHash]
	if !ok || token.ExpiresAt.Before(time.Now()) {
		return nil, repository.ErrRefreshTokenNotFound
	}
	clone := *token

	return &clone, nil
}

func (r *fakeRefreshTokenRepo) DeleteByHash(ctx context.Context, tokenHash string) error {
	if _, ok := r.byHash[tokenHash]; !ok {
		return repository.ErrRefreshTokenNotFound
	}
	delete(r.byHash, tokenHash)

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteByAccount(ctx context.Context, accountID uint) error {
	for hash, token := range r.byHash {
		if token.AccountID == accountID {
			delete(r.byHash, hash)
		}
	}

	return nil
}

type fakeResetTokenRepo struct {
	byHash map[string]*entity.PasswordResetToken
	nextID uint
}

func (r *fakeResetTokenRepo) Create(ctx context.Context, token *entity.PasswordResetToken) error {
	r.nextID++
	token.ID = r.nextID
	clone := *token
	r.byHash[token.TokenHash] = &clone

	return nil
}

func (r *fakeResetTokenRepo) FindByHash(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error) {
	token, ok := r.byHash[tokenHash]
	if !ok || token.ExpiresAt.Before(time.Now()) {
		return nil, repository.ErrResetTokenNotFound
	}
	clone := *token

	return &clone, nil
}

func (r *fakeResetTokenRepo) Delete(ctx context.Context, id uint) error {
	for hash, token := range r.byHash {
		if token.ID == id {
			delete(r.byHash, hash)

			return nil
		}
	}

	return repository.ErrResetTokenNotFound
}

func (r *fakeResetTokenRepo) DeleteByAccount(ctx context.Context, accountID uint) error {
	for hash, token := range r.byHash {
		if token.AccountID == accountID {
			delete(r.byHash, hash)
		}
	}

	return nil
}

// --- domain services ---

type fakeHasher struct{}

func (fakeHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) VerifyPassword(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}

	return nil
}

// fakeTokenService mints tokens of the form "<type>:<accountID>:<n>" so
// tests can validate and hash them without real crypto.
type fakeTokenService struct {
	issued int
}

func (s *fakeTokenService) GenerateTokens(accountID uint, role entity.Role) (*service.TokenPair, error) {
	s.issued++

	return &service.TokenPair{
		AccessToken:  fmt.Sprintf("%s:%d:%d:%s", service.TokenTypeAccess, accountID, s.issued, role),
		RefreshToken: fmt.Sprintf("%s:%d:%d:", service.TokenTypeRefresh, accountID, s.issued),
	}, nil
}

func (s *fakeTokenService) ValidateToken(tokenString, expectedType string) (*service.Claims, error) {
	parts := strings.SplitN(tokenString, ":", 4)
	if len(parts) != 4 || parts[0] != expectedType {
		return nil, errors.New("invalid token")
	}
	accountID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, errors.New("invalid token subject")
	}

	return &service.Claims{
		AccountID: uint(accountID),
		Role:      entity.Role(parts[3]),
		Type:      parts[0],
	}, nil
}

func (s *fakeTokenService) HashToken(token string) string {
	return "h:" + token
}

func (s *fakeTokenService) GetRefreshTokenDuration() time.Duration {
	return time.Hour
}

type fakeIdentityProvider struct {
	identity  *service.ExternalIdentity
	verifyErr error

	deletedUIDs []string
	deleteErr   error
}

func (p *fakeIdentityProvider) VerifyIDToken(ctx context.Context, idToken string) (*service.ExternalIdentity, error) {
	if p.verifyErr != nil {
		return nil, p.verifyErr
	}

	return p.identity, nil
}

func (p *fakeIdentityProvider) DeleteIdentity(ctx context.Context, uid string) error {
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deletedUIDs = append(p.deletedUIDs, uid)

	return nil
}

// fakeIdentityMirror records link/unlink calls keyed by email address.
type fakeIdentityMirror struct {
	linked   map[string]uint
	unlinked []string
	linkErr  error
}

func (m *fakeIdentityMirror) Link(ctx context.Context, email string, accountID uint) error {
	if m.linkErr != nil {
		return m.linkErr
	}
	if m.linked == nil {
		m.linked = map[string]uint{}
	}
	m.linked[email] = accountID

	return nil
}

func (m *fakeIdentityMirror) Unlink(ctx context.Context, email string) error {
	m.unlinked = append(m.unlinked, email)

	return nil
}

type sentMail struct {
	to    string
	token string
	kind  string
}

type fakeMailSender struct {
	sent    []sentMail
	sendErr error
}

func (s *fakeMailSender) SendPasswordReset(ctx context.Context, to, token string) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, sentMail{to: to, token: token, kind: "reset"})

	return nil
}

func (s *fakeMailSender) SendPasswordChanged(ctx context.Context, to string) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, sentMail{to: to, kind: "changed"})

	return nil
}

type fakePlaceSearcher struct {
	candidates []service.PlaceCandidate
	searchErr  error
}

func (s *fakePlaceSearcher) SearchCafes(ctx context.Context, area string) ([]service.PlaceCandidate, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}

	return s.candidates, nil
}
