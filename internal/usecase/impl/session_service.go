package impl

import (
	"context"
	"log/slog"
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

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	accountRepo       repository.AccountRepository
	sessionRepo       repository.SessionRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	maxActiveSessions int
	logger            *slog.Logger
}

// SessionServiceParams holds dependencies for sessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	AccountRepo  repository.AccountRepository
	SessionRepo  repository.SessionRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	maxActiveSessions := 0
	if params.Config != nil && params.Config.Auth != nil {
		maxActiveSessions = params.Config.Auth.MaxActiveSessions
	}

	return &sessionService{
		accountRepo:       params.AccountRepo,
		sessionRepo:       params.SessionRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		maxActiveSessions: maxActiveSessions,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login validates a credential and issues a bearer token backed by a session
// record. The identity is classified before lookup, and the failure split is
// deliberate: unknown email, wrong secret on a resolved identity, and the
// generic fallback are distinct errors for the calling UI.
func (srv *sessionService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	identity := entity.ParseIdentity(input.Identity)
	srv.log(ctx).Debug("Starting login", slog.String("identityKind", string(identity.Kind)))

	account, err := srv.resolveIdentity(ctx, identity)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("identityKind", string(identity.Kind)), slog.Any("error", err))

		return nil, err
	}

	// Check password outside any lock (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.Any("accountID", account.ID), slog.Any("error", domainerrors.ErrWrongCredential))

		return nil, errors.Wrap(domainerrors.ErrWrongCredential, "password mismatch")
	}

	if !account.Verified {
		srv.log(ctx).Warn("Login blocked for unverified account", slog.Any("accountID", account.ID))

		return nil, errors.Wrap(domainerrors.ErrUnverifiedAccount, "email not verified")
	}

	if srv.maxActiveSessions > 0 {
		active, err := srv.sessionRepo.CountActiveSessionsByAccountID(ctx, account.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to count active sessions")
		}
		if active >= srv.maxActiveSessions {
			srv.log(ctx).Warn("Login blocked by session limit", slog.Any("accountID", account.ID), slog.Int("active", active))

			return nil, errors.Wrap(domainerrors.ErrSessionLimitExceeded, "active session limit exceeded")
		}
	}

	token, err := srv.tokenService.Generate(account.ID, account.Role.String())
	if err != nil {
		srv.log(ctx).Error("Failed to generate token", slog.Any("accountID", account.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate bearer token")
	}

	session := &entity.Session{
		AccountID: account.ID,
		TokenHash: srv.tokenService.HashToken(token),
		ExpiresAt: time.Now().Add(srv.tokenService.TokenDuration()),
	}
	if err := srv.sessionRepo.CreateSession(ctx, session); err != nil {
		srv.log(ctx).Error("Failed to record session", slog.Any("accountID", account.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to record session")
	}

	srv.log(ctx).Debug("Login completed", slog.Any("accountID", account.ID))

	return &usecase.LoginOutput{
		Token:     token,
		TokenType: "bearer",
		AccountID: account.ID,
		Account:   account.Sanitized(),
	}, nil
}

// resolveIdentity looks up the account behind a classified identity. An
// email-shaped identity with no account is reported as such; everything else
// that fails to resolve collapses into the generic credential error.
func (srv *sessionService) resolveIdentity(ctx context.Context, identity entity.Identity) (*entity.Account, error) {
	if identity.IsEmail() {
		account, err := srv.accountRepo.FindByEmail(ctx, identity.Value)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return nil, errors.Wrap(domainerrors.ErrAccountNotFound, "no account with this email")
			}

			return nil, errors.Wrap(err, "failed to find account by email")
		}

		return account, nil
	}

	account, err := srv.accountRepo.FindByUsername(ctx, identity.Value)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredential, "identity did not resolve")
		}

		return nil, errors.Wrap(err, "failed to find account by username")
	}

	return account, nil
}

// CurrentAccount resolves a bearer token to its account. The token is honored
// only while its session record exists and is unexpired, so logout and reset
// actually revoke it.
func (srv *sessionService) CurrentAccount(ctx context.Context, token string) (*entity.Account, error) {
	if token == "" {
		return nil, errors.Wrap(domainerrors.ErrNotAuthenticated, "no bearer token")
	}

	claims, err := srv.tokenService.Validate(token)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrNotAuthenticated, "invalid bearer token")
	}

	session, err := srv.sessionRepo.FindSessionByTokenHash(ctx, srv.tokenService.HashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) || errors.Is(err, repository.ErrSessionExpired) {
			return nil, errors.Wrap(domainerrors.ErrNotAuthenticated, "session revoked or expired")
		}

		return nil, errors.Wrap(err, "failed to find session")
	}

	if session.AccountID != claims.AccountID {
		return nil, errors.Wrap(domainerrors.ErrNotAuthenticated, "session does not match token")
	}

	account, err := srv.accountRepo.FindByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotAuthenticated, "account no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load session account")
	}

	return account.Sanitized(), nil
}

// Logout revokes the session behind the given token by deleting its record.
// Revoking an unknown or already-revoked token is a no-op, so logout is
// idempotent and always succeeds.
func (srv *sessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if _, err := srv.tokenService.Validate(token); err != nil {
		// Still delete the record; an expired token's session should not linger.
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	if err := srv.sessionRepo.DeleteSessionByTokenHash(ctx, srv.tokenService.HashToken(token)); err != nil {
		srv.log(ctx).Error("Failed to delete session", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete session")
	}

	srv.log(ctx).Debug("Logged out")

	return nil
}

// CleanupExpiredSessions removes session records past their expiry.
func (srv *sessionService) CleanupExpiredSessions(ctx context.Context) error {
	if err := srv.sessionRepo.DeleteExpiredSessions(ctx); err != nil {
		return errors.Wrap(err, "failed to delete expired sessions")
	}

	return nil
}
