package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "warden/internal/delivery/context"
	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"
	"warden/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	accountRepo repository.AccountRepository
	logger      *slog.Logger
}

// ProfileServiceParams holds dependencies for profileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	Logger      *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		accountRepo: params.AccountRepo,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile returns the sanitized account for the given ID.
func (srv *profileService) GetProfile(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.Wrap(domainerrors.ErrAccountNotFound, "account not found")
		}

		return nil, errors.Wrap(err, "failed to load account")
	}

	return account.Sanitized(), nil
}

// CompleteProfile merges the supplied fields into the account and clears the
// profile-setup flag. Unset fields leave stored values untouched.
func (srv *profileService) CompleteProfile(ctx context.Context, accountID uuid.UUID, input *usecase.CompleteProfileInput) (*entity.Account, error) {
	srv.log(ctx).Debug("Completing profile", slog.Any("accountID", accountID))

	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.Wrap(domainerrors.ErrAccountNotFound, "account not found")
		}

		return nil, errors.Wrap(err, "failed to load account for profile completion")
	}

	if input.DisplayName != nil {
		account.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Organization != nil {
		account.Organization = strings.TrimSpace(*input.Organization)
	}
	account.RequiresProfileSetup = false

	if err := srv.accountRepo.Update(ctx, account); err != nil {
		return nil, errors.Wrap(err, "failed to store completed profile")
	}

	srv.log(ctx).Info("Profile completed", slog.Any("accountID", account.ID))

	return account.Sanitized(), nil
}

// ListAccounts returns the sanitized directory.
func (srv *profileService) ListAccounts(ctx context.Context) ([]*entity.Account, error) {
	accounts, err := srv.accountRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}

	sanitized := make([]*entity.Account, 0, len(accounts))
	for _, account := range accounts {
		sanitized = append(sanitized, account.Sanitized())
	}

	return sanitized, nil
}
