// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"warden/config"
	deliverycontext "warden/internal/delivery/context"
	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"
	"warden/internal/domain/service"
	"warden/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// usernameSuffixAttempts bounds retries when a derived username collides.
const usernameSuffixAttempts = 5

// accountService implements the AccountUsecase and Seeder interfaces.
type accountService struct {
	accountRepo     repository.AccountRepository
	sessionRepo     repository.SessionRepository
	ticketRepo      repository.TicketRepository
	hasher          service.PasswordHasher
	minSecretLength int
	ticketTTL       time.Duration
	debug           bool
	logger          *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	SessionRepo repository.SessionRepository
	TicketRepo  repository.TicketRepository
	Hasher      service.PasswordHasher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all
// dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	srv := &accountService{
		accountRepo: params.AccountRepo,
		sessionRepo: params.SessionRepo,
		ticketRepo:  params.TicketRepo,
		hasher:      params.Hasher,
		logger:      params.Logger,
	}

	if params.Config != nil {
		srv.debug = params.Config.Env.Debug
		if params.Config.Auth != nil {
			srv.minSecretLength = params.Config.Auth.MinSecretLength
			srv.ticketTTL = params.Config.Auth.TicketTTL
		}
	}
	if srv.minSecretLength <= 0 {
		srv.minSecretLength = 8
	}
	if srv.ticketTTL <= 0 {
		srv.ticketTTL = 48 * time.Hour
	}

	return srv
}

// NewSeeder exposes the account service's seeding surface for startup wiring.
func NewSeeder(params AccountServiceParams) usecase.Seeder {
	srv, _ := NewAccountService(params).(*accountService)

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete account registration process. The new
// account starts unverified and no token is issued; a verification ticket is
// recorded instead.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	email := strings.TrimSpace(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	if err := srv.validateNewCredential(email, input.Password, input.ConfirmPassword); err != nil {
		srv.log(ctx).Warn("Registration validation failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	hashedSecret, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
	}

	account, err := srv.createAccountWithUniqueUsername(ctx, input, email, hashedSecret)
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	ticket := entity.NewTicket(entity.TicketVerify, account.ID, srv.ticketTTL, time.Now())
	if err := srv.ticketRepo.SaveTicket(ctx, ticket); err != nil {
		srv.log(ctx).Error("Failed to record verification ticket", slog.Any("accountID", account.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to record verification ticket")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("accountID", account.ID))

	output := &usecase.RegisterOutput{
		Message:   "Registration successful. Please check your email to verify your account.",
		AccountID: account.ID,
		Email:     account.Email,
	}
	if srv.debug {
		// No mail transport in scope; debug builds hand the ticket back.
		output.DebugTicket = ticket.Value
	}

	return output, nil
}

func (srv *accountService) validateNewCredential(email, secret, confirm string) error {
	if !entity.ValidEmailShape(email) {
		return domainerrors.ErrValidation.WithDetails("invalid email address")
	}
	if secret != confirm {
		return domainerrors.ErrValidation.WithDetails("passwords do not match")
	}
	if len(secret) < srv.minSecretLength {
		return domainerrors.ErrValidation.WithDetails(
			fmt.Sprintf("password must be at least %d characters", srv.minSecretLength))
	}

	return nil
}

// createAccountWithUniqueUsername creates the account, deriving the username
// from the email local-part when none was supplied. A derived username that
// collides is retried with a random numeric suffix; an explicit one is not.
func (srv *accountService) createAccountWithUniqueUsername(
	ctx context.Context,
	input *usecase.RegisterInput,
	email, hashedSecret string,
) (*entity.Account, error) {
	username := strings.TrimSpace(input.Username)
	derived := username == ""
	if derived {
		username = deriveUsername(email)
	}

	for attempt := 0; ; attempt++ {
		account := &entity.Account{
			Email:                email,
			Username:             username,
			PasswordHash:         hashedSecret,
			DisplayName:          strings.TrimSpace(input.DisplayName),
			Organization:         strings.TrimSpace(input.Organization),
			Verified:             false,
			Role:                 entity.RoleUser,
			Tier:                 entity.TierFree,
			RequiresProfileSetup: true,
		}

		err := srv.accountRepo.Create(ctx, account)
		if err == nil {
			return account, nil
		}

		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, errors.Wrap(domainerrors.ErrDuplicateAccount, "email already registered")
		case errors.Is(err, repository.ErrDuplicateUsername):
			if !derived || attempt >= usernameSuffixAttempts {
				return nil, errors.Wrap(domainerrors.ErrDuplicateAccount, "username already registered")
			}
			username = fmt.Sprintf("%s%04d", deriveUsername(email), rand.IntN(10000))
		default:
			return nil, errors.Wrap(err, "failed to create account")
		}
	}
}

// deriveUsername builds a username from the email local-part, keeping only
// letters and digits.
func deriveUsername(email string) string {
	local, _, _ := strings.Cut(email, "@")

	var b strings.Builder
	b.Grow(len(local))
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return fmt.Sprintf("user%04d", rand.IntN(10000))
	}

	return b.String()
}

// VerifyEmail consumes a verification ticket and marks the account verified.
// Verification is monotonic: once set it never reverts.
func (srv *accountService) VerifyEmail(ctx context.Context, input *usecase.VerifyEmailInput) (*usecase.VerifyEmailOutput, error) {
	srv.log(ctx).Debug("Verifying email")

	accountID, err := entity.ParseTicketAccountID(entity.TicketVerify, input.Ticket)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidTicket, "ticket does not resolve to an account")
	}

	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidTicket, "no account for ticket")
		}

		return nil, errors.Wrap(err, "failed to load account for verification")
	}

	ticket, err := srv.ticketRepo.FindTicket(ctx, entity.TicketVerify, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidTicket, "no verification ticket recorded")
		}

		return nil, errors.Wrap(err, "failed to load verification ticket")
	}
	if !ticket.Usable(time.Now()) {
		return nil, errors.Wrap(domainerrors.ErrInvalidTicket, "verification ticket consumed or expired")
	}

	account.Verified = true
	if err := srv.accountRepo.Update(ctx, account); err != nil {
		return nil, errors.Wrap(err, "failed to mark account verified")
	}

	if err := srv.ticketRepo.MarkTicketUsed(ctx, entity.TicketVerify, accountID); err != nil {
		return nil, errors.Wrap(err, "failed to consume verification ticket")
	}

	srv.log(ctx).Info("Email verified", slog.Any("accountID", account.ID))

	return &usecase.VerifyEmailOutput{
		Message:              "Email verified successfully",
		AccountID:            account.ID,
		Email:                account.Email,
		RequiresProfileSetup: account.RequiresProfileSetup,
	}, nil
}

// ForgotPassword records a reset ticket when the email resolves to an
// account. The response is structurally identical either way, so callers
// cannot probe the directory for registered addresses.
func (srv *accountService) ForgotPassword(ctx context.Context, input *usecase.ForgotPasswordInput) (*usecase.ForgotPasswordOutput, error) {
	email := strings.TrimSpace(input.Email)
	srv.log(ctx).Debug("Password reset requested", slog.String("email", email))

	output := &usecase.ForgotPasswordOutput{
		Message: "If an account exists with this email, a password reset link has been sent.",
	}

	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return output, nil
		}

		return nil, errors.Wrap(err, "failed to look up account for password reset")
	}

	ticket := entity.NewTicket(entity.TicketReset, account.ID, srv.ticketTTL, time.Now())
	if err := srv.ticketRepo.SaveTicket(ctx, ticket); err != nil {
		return nil, errors.Wrap(err, "failed to record reset ticket")
	}

	if srv.debug {
		output.DebugTicket = ticket.Value
	}

	return output, nil
}

// ResetPassword consumes a reset ticket, replaces the credential hash, and
// revokes every session of the account so stolen tokens stop working.
func (srv *accountService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) (*usecase.ResetPasswordOutput, error) {
	srv.log(ctx).Debug("Resetting password")

	if input.NewPassword != input.ConfirmPassword {
		return nil, domainerrors.ErrValidation.WithDetails("passwords do not match")
	}
	if len(input.NewPassword) < srv.minSecretLength {
		return nil, domainerrors.ErrValidation.WithDetails(
			fmt.Sprintf("password must be at least %d characters", srv.minSecretLength))
	}

	accountID, err := entity.ParseTicketAccountID(entity.TicketReset, input.Ticket)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidTicket, "ticket does not resolve to an account")
	}

	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidTicket, "no account for ticket")
		}

		return nil, errors.Wrap(err, "failed to load account for password reset")
	}

	ticket, err := srv.ticketRepo.FindTicket(ctx, entity.TicketReset, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidTicket, "no reset ticket recorded")
		}

		return nil, errors.Wrap(err, "failed to load reset ticket")
	}
	if !ticket.Usable(time.Now()) {
		return nil, errors.Wrap(domainerrors.ErrInvalidTicket, "reset ticket consumed or expired")
	}

	hashedSecret, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash replacement password")
	}

	account.PasswordHash = hashedSecret
	if err := srv.accountRepo.Update(ctx, account); err != nil {
		return nil, errors.Wrap(err, "failed to store replacement password")
	}

	if err := srv.ticketRepo.MarkTicketUsed(ctx, entity.TicketReset, accountID); err != nil {
		return nil, errors.Wrap(err, "failed to consume reset ticket")
	}

	if err := srv.sessionRepo.DeleteSessionsByAccountID(ctx, accountID); err != nil {
		return nil, errors.Wrap(err, "failed to revoke sessions after password reset")
	}

	srv.log(ctx).Info("Password reset completed", slog.Any("accountID", account.ID))

	return &usecase.ResetPasswordOutput{
		Message: "Password has been reset successfully",
	}, nil
}

// ResendVerification re-records the verification ticket for an unverified
// account. Resending is idempotent; the newest ticket is the live one.
func (srv *accountService) ResendVerification(ctx context.Context, input *usecase.ResendVerificationInput) (*usecase.ResendVerificationOutput, error) {
	email := strings.TrimSpace(input.Email)
	srv.log(ctx).Debug("Resending verification", slog.String("email", email))

	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.Wrap(domainerrors.ErrAccountNotFound, "no account with this email")
		}

		return nil, errors.Wrap(err, "failed to look up account for verification resend")
	}

	if account.Verified {
		return nil, errors.Wrap(domainerrors.ErrAlreadyVerified, "email is already verified")
	}

	ticket := entity.NewTicket(entity.TicketVerify, account.ID, srv.ticketTTL, time.Now())
	if err := srv.ticketRepo.SaveTicket(ctx, ticket); err != nil {
		return nil, errors.Wrap(err, "failed to re-record verification ticket")
	}

	output := &usecase.ResendVerificationOutput{
		Message: "Verification email sent",
	}
	if srv.debug {
		output.DebugTicket = ticket.Value
	}

	return output, nil
}

// EnsureAccount creates a seed account when no account holds its email.
// Seeded accounts are verified and need no profile setup.
func (srv *accountService) EnsureAccount(ctx context.Context, input *usecase.SeedAccountInput) error {
	_, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return errors.Wrap(err, "failed to look up seed account")
	}

	hashedSecret, err := srv.hasher.Hash(input.Secret)
	if err != nil {
		return errors.Wrap(err, "failed to hash seed account password")
	}

	role := input.Role
	if !role.IsValid() {
		role = entity.RoleUser
	}
	tier := input.Tier
	if !tier.IsValid() {
		tier = entity.TierFree
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		username = deriveUsername(input.Email)
	}

	account := &entity.Account{
		Email:        strings.TrimSpace(input.Email),
		Username:     username,
		PasswordHash: hashedSecret,
		DisplayName:  input.DisplayName,
		Organization: input.Organization,
		Verified:     true,
		Role:         role,
		Tier:         tier,
	}

	if err := srv.accountRepo.Create(ctx, account); err != nil {
		// Another replica may have seeded the same account concurrently.
		if errors.Is(err, repository.ErrDuplicateEmail) || errors.Is(err, repository.ErrDuplicateUsername) {
			return nil
		}

		return errors.Wrap(err, "failed to create seed account")
	}

	srv.logger.Info("Seeded account", slog.String("email", account.Email), slog.Any("role", account.Role))

	return nil
}
