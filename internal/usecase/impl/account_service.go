package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dabinj96/Peaberry-sub000/config"
	deliverycontext "github.com/dabinj96/Peaberry-sub000/internal/delivery/context"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
	domainerrors "github.com/dabinj96/Peaberry-sub000/internal/domain/errors"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/repository"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/service"
	"github.com/dabinj96/Peaberry-sub000/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const minPasswordLength = 8

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager        repository.TransactionManager
	accountRepo      repository.AccountRepository
	refreshTokenRepo repository.RefreshTokenRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	identityProvider service.IdentityProvider
	identityMirror   service.IdentityMirror
	mailSender       service.MailSender
	resetTokenTTL    time.Duration
	logger           *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	AccountRepo      repository.AccountRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	IdentityProvider service.IdentityProvider
	IdentityMirror   service.IdentityMirror
	MailSender       service.MailSender
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	resetTokenTTL := time.Hour
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.ResetTokenTTL > 0 {
		resetTokenTTL = params.Config.Auth.ResetTokenTTL
	}

	return &accountService{
		txManager:        params.TxManager,
		accountRepo:      params.AccountRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		identityProvider: params.IdentityProvider,
		identityMirror:   params.IdentityMirror,
		mailSender:       params.MailSender,
		resetTokenTTL:    resetTokenTTL,
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// validatePassword enforces the minimum password policy.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return errors.Wrap(domainerrors.ErrValidationFailed, "password does not meet security requirements")
	}

	return nil
}

// Register creates a local handle/password account. Duplicate handles and
// emails surface as Conflict through the unique constraints, so concurrent
// registrations cannot race past a pre-check.
func (srv *accountService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Registering account", slog.String("handle", input.Handle))

	if input.Handle == "" || input.Email == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "handle and email are required")
	}
	if err := validatePassword(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("handle", input.Handle))

		return nil, err
	}

	hashedPassword, err := srv.hasher.HashPassword(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	account := &entity.Account{
		Handle:       input.Handle,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  input.DisplayName,
		Role:         entity.RoleUser,
	}
	if account.DisplayName == "" {
		account.DisplayName = input.Handle
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.AccountRepo().Create(ctx, account)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to register account", slog.Any("error", err), slog.String("handle", input.Handle))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.mirrorIdentity(ctx, account)

	srv.log(ctx).Info("Registered account", slog.Any("account_id", account.ID))

	return &usecase.RegisterOutput{Account: account}, nil
}

// mirrorIdentity pushes the local account id to the provider-side user
// record. The local account is the source of truth, so failures are logged
// and swallowed.
func (srv *accountService) mirrorIdentity(ctx context.Context, account *entity.Account) {
	if err := srv.identityMirror.Link(ctx, account.Email, account.ID); err != nil {
		srv.log(ctx).Warn("Identity mirror link failed",
			slog.Any("error", domainerrors.ErrUpstreamUnavailable.WrapMessage(err.Error())),
			slog.Any("account_id", account.ID))
	}
}

// Login authenticates a local handle/password pair and issues a session.
// Unknown handles and wrong passwords read identically as InvalidCredentials.
func (srv *accountService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Login attempt", slog.String("handle", input.Handle))

	account, err := srv.accountRepo.FindByHandle(ctx, input.Handle)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "unknown handle")
		}

		return nil, errors.Wrap(err, "failed to find account")
	}

	if !account.HasLocalPassword() {
		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "account has no local password")
	}
	if err := srv.hasher.VerifyPassword(account.PasswordHash, input.Password); err != nil {
		srv.log(ctx).Warn("Password mismatch on login", slog.Any("account_id", account.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
	}

	return srv.issueSession(ctx, account)
}

// ExternalLogin verifies a provider credential and signs the caller in:
// match by provider uid, else match by email and link the identity, else
// create a fresh external-only account.
func (srv *accountService) ExternalLogin(ctx context.Context, input usecase.ExternalLoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("External login attempt", slog.String("provider", input.ProviderName))

	identity, err := srv.identityProvider.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		srv.log(ctx).Warn("Identity token verification failed", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "identity token verification failed")
	}

	var account *entity.Account
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		existing, err := accountRepo.FindByProvider(ctx, input.ProviderName, identity.UID)
		if err == nil {
			account = existing

			return nil
		}
		if !errors.Is(err, repository.ErrAccountNotFound) {
			return errors.Wrap(err, "failed to find account by provider")
		}

		// Fall back to the email: an existing local account gains the
		// provider linkage instead of a duplicate account.
		existing, err = accountRepo.FindByEmail(ctx, identity.Email)
		if err == nil {
			existing.ProviderName = input.ProviderName
			existing.ProviderUID = identity.UID
			if err := accountRepo.Update(ctx, existing); err != nil {
				return errors.Wrap(err, "failed to link external identity")
			}
			account = existing

			return nil
		}
		if !errors.Is(err, repository.ErrAccountNotFound) {
			return errors.Wrap(err, "failed to find account by email")
		}

		// The empty password hash can never verify, which makes the account
		// external-only until its owner sets a password via the reset flow.
		account = &entity.Account{
			Handle:       generateHandle(identity.Email),
			Email:        identity.Email,
			DisplayName:  identity.Name,
			Role:         entity.RoleUser,
			ProviderName: input.ProviderName,
			ProviderUID:  identity.UID,
		}
		if account.DisplayName == "" {
			account.DisplayName = account.Handle
		}

		return accountRepo.Create(ctx, account)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to resolve external identity", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute external login transaction")
	}

	srv.mirrorIdentity(ctx, account)

	return srv.issueSession(ctx, account)
}

// generateHandle derives a unique handle for a fresh external account from
// the email local part plus a random suffix.
func generateHandle(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		local = email[:at]
	}

	return local + "-" + uuid.NewString()[:8]
}

// issueSession generates a token pair and persists the refresh-token hash.
func (srv *accountService) issueSession(ctx context.Context, account *entity.Account) (*usecase.LoginOutput, error) {
	pair, err := srv.tokenService.GenerateTokens(account.ID, account.Role)
	if err != nil {
		srv.log(ctx).Error("Failed to generate tokens", slog.Any("error", err), slog.Any("account_id", account.ID))

		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	token := &entity.RefreshToken{
		AccountID: account.ID,
		TokenHash: srv.tokenService.HashToken(pair.RefreshToken),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}
	if err := srv.refreshTokenRepo.Create(ctx, token); err != nil {
		srv.log(ctx).Error("Failed to persist refresh token", slog.Any("error", err), slog.Any("account_id", account.ID))

		return nil, errors.Wrap(err, "failed to persist refresh token")
	}

	srv.log(ctx).Info("Session issued", slog.Any("account_id", account.ID))

	return &usecase.LoginOutput{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Account:      account,
	}, nil
}

// Refresh rotates a refresh token: the presented token must validate and its
// stored hash must still exist, then the old hash is replaced by a new one.
func (srv *accountService) Refresh(ctx context.Context, refreshToken string) (*usecase.LoginOutput, error) {
	claims, err := srv.tokenService.ValidateToken(refreshToken, service.TokenTypeRefresh)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token validation failed")
	}

	tokenHash := srv.tokenService.HashToken(refreshToken)

	var account *entity.Account
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		stored, err := repoFactory.RefreshTokenRepo().FindByHash(ctx, tokenHash)
		if err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token revoked or expired")
			}

			return errors.Wrap(err, "failed to find refresh token")
		}
		if stored.AccountID != claims.AccountID {
			return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token subject mismatch")
		}

		account, err = repoFactory.AccountRepo().FindByID(ctx, claims.AccountID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "account no longer exists")
			}

			return errors.Wrap(err, "failed to find account")
		}

		return repoFactory.RefreshTokenRepo().DeleteByHash(ctx, tokenHash)
	})
	if err != nil {
		srv.log(ctx).Warn("Refresh failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute refresh transaction")
	}

	return srv.issueSession(ctx, account)
}

// Logout revokes the session the refresh token identifies. An already
// revoked token reads as RefreshTokenInvalid.
func (srv *accountService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := srv.tokenService.HashToken(refreshToken)

	if err := srv.refreshTokenRepo.DeleteByHash(ctx, tokenHash); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "session already revoked")
		}
		srv.log(ctx).Error("Failed to revoke session", slog.Any("error", err))

		return errors.Wrap(err, "failed to revoke session")
	}
	srv.log(ctx).Info("Session revoked")

	return nil
}

// GetProfile returns the caller's account.
func (srv *accountService) GetProfile(ctx context.Context, accountID uint) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "account not found")
		}

		return nil, errors.Wrap(err, "failed to find account")
	}

	return account, nil
}

// ChangePassword verifies the current password before storing a new hash.
// All other sessions are revoked and the owner is notified by mail.
func (srv *accountService) ChangePassword(ctx context.Context, input usecase.ChangePasswordInput) error {
	srv.log(ctx).Info("Changing password", slog.Any("account_id", input.AccountID))

	if err := validatePassword(input.NewPassword); err != nil {
		return err
	}

	var account *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		found, err := accountRepo.FindByID(ctx, input.AccountID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "account not found")
			}

			return errors.Wrap(err, "failed to find account")
		}
		account = found

		if !account.HasLocalPassword() {
			return errors.Wrap(domainerrors.ErrValidationFailed, "external-only account has no password to change")
		}
		if err := srv.hasher.VerifyPassword(account.PasswordHash, input.CurrentPassword); err != nil {
			return errors.Wrap(domainerrors.ErrInvalidCredentials, "current password mismatch")
		}

		newHash, err := srv.hasher.HashPassword(input.NewPassword)
		if err != nil {
			return errors.Wrap(err, "failed to hash new password")
		}
		account.PasswordHash = newHash

		if err := accountRepo.Update(ctx, account); err != nil {
			return errors.Wrap(err, "failed to update account")
		}

		return repoFactory.RefreshTokenRepo().DeleteByAccount(ctx, account.ID)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to change password", slog.Any("error", err), slog.Any("account_id", input.AccountID))

		return errors.Wrap(err, "failed to execute password change transaction")
	}

	srv.notifyPasswordChanged(ctx, account.Email)

	return nil
}

// RequestPasswordReset issues an expiring reset token and mails it. Unknown
// addresses succeed silently so the endpoint cannot confirm membership.
func (srv *accountService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Debug("Reset requested for unknown email")

			return nil
		}

		return errors.Wrap(err, "failed to find account")
	}

	rawToken := uuid.NewString()
	resetToken := &entity.PasswordResetToken{
		AccountID: account.ID,
		TokenHash: srv.tokenService.HashToken(rawToken),
		ExpiresAt: time.Now().Add(srv.resetTokenTTL),
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		resetRepo := repoFactory.ResetTokenRepo()

		// One outstanding token per account.
		if err := resetRepo.DeleteByAccount(ctx, account.ID); err != nil {
			return errors.Wrap(err, "failed to clear previous reset tokens")
		}

		return resetRepo.Create(ctx, resetToken)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to store reset token", slog.Any("error", err), slog.Any("account_id", account.ID))

		return errors.Wrap(err, "failed to execute reset request transaction")
	}

	if err := srv.mailSender.SendPasswordReset(ctx, account.Email, rawToken); err != nil {
		srv.log(ctx).Error("Failed to send reset mail", slog.Any("error", err), slog.Any("account_id", account.ID))

		return domainerrors.ErrUpstreamUnavailable.WrapMessage("failed to send reset mail")
	}
	srv.log(ctx).Info("Reset mail sent", slog.Any("account_id", account.ID))

	return nil
}

// ResetPassword consumes a reset token, stores the new password hash and
// revokes every open session.
func (srv *accountService) ResetPassword(ctx context.Context, input usecase.ResetPasswordInput) error {
	if err := validatePassword(input.NewPassword); err != nil {
		return err
	}

	tokenHash := srv.tokenService.HashToken(input.Token)

	var account *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		resetRepo := repoFactory.ResetTokenRepo()
		accountRepo := repoFactory.AccountRepo()

		stored, err := resetRepo.FindByHash(ctx, tokenHash)
		if err != nil {
			if errors.Is(err, repository.ErrResetTokenNotFound) {
				return errors.Wrap(domainerrors.ErrResetTokenInvalid, "reset token unknown or expired")
			}

			return errors.Wrap(err, "failed to find reset token")
		}

		account, err = accountRepo.FindByID(ctx, stored.AccountID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return errors.Wrap(domainerrors.ErrResetTokenInvalid, "account no longer exists")
			}

			return errors.Wrap(err, "failed to find account")
		}

		newHash, err := srv.hasher.HashPassword(input.NewPassword)
		if err != nil {
			return errors.Wrap(err, "failed to hash new password")
		}
		account.PasswordHash = newHash

		if err := accountRepo.Update(ctx, account); err != nil {
			return errors.Wrap(err, "failed to update account")
		}
		if err := resetRepo.Delete(ctx, stored.ID); err != nil {
			return errors.Wrap(err, "failed to consume reset token")
		}

		return repoFactory.RefreshTokenRepo().DeleteByAccount(ctx, account.ID)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to reset password", slog.Any("error", err))

		return errors.Wrap(err, "failed to execute password reset transaction")
	}

	srv.notifyPasswordChanged(ctx, account.Email)

	return nil
}

// notifyPasswordChanged sends the changed notification best-effort.
func (srv *accountService) notifyPasswordChanged(ctx context.Context, email string) {
	if err := srv.mailSender.SendPasswordChanged(ctx, email); err != nil {
		srv.log(ctx).Warn("Failed to send password-changed mail",
			slog.Any("error", domainerrors.ErrUpstreamUnavailable.WrapMessage(err.Error())))
	}
}

// DeleteAccount removes the account and every dependent row in one
// transaction, then best-effort deletes the provider-side identity.
func (srv *accountService) DeleteAccount(ctx context.Context, input usecase.DeleteAccountInput) error {
	srv.log(ctx).Info("Deleting account", slog.Any("account_id", input.AccountID))

	account, err := srv.accountRepo.FindByID(ctx, input.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return errors.Wrap(domainerrors.ErrNotFound, "account not found")
		}

		return errors.Wrap(err, "failed to find account")
	}

	// External-only accounts have no password to confirm with.
	if account.HasLocalPassword() {
		if err := srv.hasher.VerifyPassword(account.PasswordHash, input.Password); err != nil {
			return errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
		}
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.RatingRepo().DeleteByAccount(ctx, account.ID); err != nil {
			return errors.Wrap(err, "failed to delete account ratings")
		}
		if err := repoFactory.FavoriteRepo().DeleteByAccount(ctx, account.ID); err != nil {
			return errors.Wrap(err, "failed to delete account favorites")
		}
		if err := repoFactory.RefreshTokenRepo().DeleteByAccount(ctx, account.ID); err != nil {
			return errors.Wrap(err, "failed to delete account sessions")
		}
		if err := repoFactory.ResetTokenRepo().DeleteByAccount(ctx, account.ID); err != nil {
			return errors.Wrap(err, "failed to delete account reset tokens")
		}

		return repoFactory.AccountRepo().Delete(ctx, account.ID)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete account", slog.Any("error", err), slog.Any("account_id", account.ID))

		return errors.Wrap(err, "failed to execute account deletion transaction")
	}

	if account.HasExternalIdentity() {
		if err := srv.identityProvider.DeleteIdentity(ctx, account.ProviderUID); err != nil {
			srv.log(ctx).Warn("Provider-side identity deletion failed",
				slog.Any("error", domainerrors.ErrUpstreamUnavailable.WrapMessage(err.Error())),
				slog.Any("account_id", account.ID))
		}
	} else if err := srv.identityMirror.Unlink(ctx, account.Email); err != nil {
		srv.log(ctx).Warn("Identity mirror unlink failed",
			slog.Any("error", domainerrors.ErrUpstreamUnavailable.WrapMessage(err.Error())),
			slog.Any("account_id", account.ID))
	}
	srv.log(ctx).Info("Deleted account", slog.Any("account_id", account.ID))

	return nil
}
