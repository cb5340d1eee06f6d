package impl

import (
	"context"
	"testing"

	"warden/config"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_ByEmailAndUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	out := registerVerified(t, env, "carol@example.com", "password123")

	byEmail, err := env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "carol@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, out.AccountID, byEmail.AccountID)
	assert.Equal(t, "bearer", byEmail.TokenType)
	assert.NotEmpty(t, byEmail.Token)

	byUsername, err := env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "carol", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, out.AccountID, byUsername.AccountID)

	// Each login is its own session.
	assert.NotEqual(t, byEmail.Token, byUsername.Token)
}

func TestLogin_NeverReturnsSecretHash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerVerified(t, env, "hash@example.com", "password123")

	out, err := env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "hash@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotNil(t, out.Account)
	assert.Empty(t, out.Account.PasswordHash)
}

func TestLogin_FailureSplit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerVerified(t, env, "dave@example.com", "password123")

	// Unknown email-shaped identity: the caller is told no account exists.
	_, err := env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "nobody@example.com", Password: "password123"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)

	// Resolved identity, wrong secret.
	_, err = env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "dave@example.com", Password: "wrongpass123"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrWrongCredential)

	// Unknown username collapses into the generic failure, leaking nothing.
	_, err = env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "nobodyhere", Password: "password123"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredential)
}

func TestLogin_UnverifiedAccountBlocked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	out, err := env.accountSvc.Register(ctx, &usecase.RegisterInput{
		Email:           "pending@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.NoError(t, err)

	_, err = env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "pending@example.com", Password: "password123"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnverifiedAccount)

	// Verification unblocks login.
	_, err = env.accountSvc.VerifyEmail(ctx, &usecase.VerifyEmailInput{Ticket: out.DebugTicket})
	require.NoError(t, err)

	_, err = env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "pending@example.com", Password: "password123"})
	require.NoError(t, err)
}

func TestCurrentAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	out := registerVerified(t, env, "erin@example.com", "password123")

	login, err := env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "erin@example.com", Password: "password123"})
	require.NoError(t, err)

	account, err := env.sessionSvc.CurrentAccount(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, out.AccountID, account.ID)
	assert.Empty(t, account.PasswordHash)

	_, err = env.sessionSvc.CurrentAccount(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)

	_, err = env.sessionSvc.CurrentAccount(ctx, "not-a-token")
	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)
}

func TestLogout_RevokesTokenAndIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerVerified(t, env, "frank@example.com", "password123")

	login, err := env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "frank@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, env.sessionSvc.Logout(ctx, login.Token))

	// The JWT itself is still signed and unexpired, but its session is gone.
	_, err = env.sessionSvc.CurrentAccount(ctx, login.Token)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)

	// Logging out again, or with garbage, still succeeds.
	assert.NoError(t, env.sessionSvc.Logout(ctx, login.Token))
	assert.NoError(t, env.sessionSvc.Logout(ctx, "garbage"))
	assert.NoError(t, env.sessionSvc.Logout(ctx, ""))
}

func TestLogout_OnlyRevokesOwnSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerVerified(t, env, "grace@example.com", "password123")

	first, err := env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "grace@example.com", Password: "password123"})
	require.NoError(t, err)
	second, err := env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "grace@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, env.sessionSvc.Logout(ctx, first.Token))

	_, err = env.sessionSvc.CurrentAccount(ctx, first.Token)
	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)

	// The other session is untouched.
	_, err = env.sessionSvc.CurrentAccount(ctx, second.Token)
	assert.NoError(t, err)
}

func TestLogin_SessionLimit(t *testing.T) {
	env := newTestEnvWithConfig(t, func(cfg *config.Config) {
		cfg.Auth.MaxActiveSessions = 2
	})
	ctx := context.Background()

	registerVerified(t, env, "limited@example.com", "password123")

	first, err := env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "limited@example.com", Password: "password123"})
	require.NoError(t, err)
	_, err = env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "limited@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "limited@example.com", Password: "password123"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrSessionLimitExceeded)

	// Logging out frees a slot.
	require.NoError(t, env.sessionSvc.Logout(ctx, first.Token))

	_, err = env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "limited@example.com", Password: "password123"})
	assert.NoError(t, err)
}
