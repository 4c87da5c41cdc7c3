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

// accountRepository implements the domain.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByID retrieves a single account by its surrogate id.
func (repo *accountRepository) FindByID(ctx context.Context, id uint) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).First(&accountM, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM), nil
}

// FindByHandle retrieves a single account by its unique handle.
func (repo *accountRepository) FindByHandle(ctx context.Context, handle string) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).Where("handle = ?", handle).First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by handle")
	}

	return toAccountDomain(&accountM), nil
}

// FindByEmail retrieves a single account by its unique email address.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM), nil
}

// FindByProvider retrieves the account linked to an external identity.
func (repo *accountRepository) FindByProvider(ctx context.Context, providerName, providerUID string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("provider_name = ? AND provider_uid = ?", providerName, providerUID).
		First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by provider")
	}

	return toAccountDomain(&accountM), nil
}

// Create persists a new account. The unique constraints on handle, email and
// the provider pair are the authority on duplicates; violations are
// translated into the Conflict domain error.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("handle, email or provider identity already taken")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required account information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// Update modifies an existing account.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Save(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("handle, email or provider identity already taken")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update account")
	}

	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// Delete removes the account row.
func (repo *accountRepository) Delete(ctx context.Context, id uint) error {
	result := repo.db.WithContext(ctx).Delete(&model.AccountModel{}, id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	account := &entity.Account{
		ID:           data.ID,
		Handle:       data.Handle,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		DisplayName:  data.DisplayName,
		Role:         entity.Role(data.Role),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
	if data.ProviderName != nil {
		account.ProviderName = *data.ProviderName
	}
	if data.ProviderUID != nil {
		account.ProviderUID = *data.ProviderUID
	}

	return account
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel.
// Empty provider fields map to NULL so local-only accounts never collide on
// the provider pair index.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	accountM := &model.AccountModel{
		ID:           data.ID,
		Handle:       data.Handle,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		DisplayName:  data.DisplayName,
		Role:         data.Role.String(),
		CreatedAt:    data.CreatedAt,
	}
	if data.ProviderName != "" {
		name := data.ProviderName
		accountM.ProviderName = &name
	}
	if data.ProviderUID != "" {
		uid := data.ProviderUID
		accountM.ProviderUID = &uid
	}

	return accountM
}
