package impl

import (
	"context"
	"testing"

	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input usecase.RegisterInput
	}{
		{"bad email shape", usecase.RegisterInput{Email: "not-an-email", Password: "password123", ConfirmPassword: "password123"}},
		{"missing domain dot", usecase.RegisterInput{Email: "user@host", Password: "password123", ConfirmPassword: "password123"}},
		{"mismatched secrets", usecase.RegisterInput{Email: "a@example.com", Password: "password123", ConfirmPassword: "password124"}},
		{"short secret", usecase.RegisterInput{Email: "a@example.com", Password: "short", ConfirmPassword: "short"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.accountSvc.Register(ctx, &tc.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}

	// Nothing was created by any failed attempt.
	accounts, err := env.accounts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestRegister_CreatesUnverifiedAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	out, err := env.accountSvc.Register(ctx, &usecase.RegisterInput{
		Email:           "newuser@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "newuser@example.com", out.Email)
	assert.NotEmpty(t, out.DebugTicket)

	account, err := env.accounts.FindByID(ctx, out.AccountID)
	require.NoError(t, err)
	assert.False(t, account.Verified)
	assert.True(t, account.RequiresProfileSetup)
	assert.Equal(t, entity.RoleUser, account.Role)
	assert.Equal(t, entity.TierFree, account.Tier)
	assert.Equal(t, "newuser", account.Username)

	// The secret is never stored in the clear.
	assert.NotEmpty(t, account.PasswordHash)
	assert.NotEqual(t, "password123", account.PasswordHash)
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerVerified(t, env, "dup@example.com", "password123")

	_, err := env.accountSvc.Register(ctx, &usecase.RegisterInput{
		Email:           "DUP@Example.COM",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateAccount)
}

func TestRegister_DerivedUsernameCollisionGetsSuffix(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.accountSvc.Register(ctx, &usecase.RegisterInput{
		Email:           "sam@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.NoError(t, err)

	// Same local-part, different domain. The derived username collides and
	// must be retried with a suffix rather than failing registration.
	second, err := env.accountSvc.Register(ctx, &usecase.RegisterInput{
		Email:           "sam@other.org",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.NoError(t, err)

	a, err := env.accounts.FindByID(ctx, first.AccountID)
	require.NoError(t, err)
	b, err := env.accounts.FindByID(ctx, second.AccountID)
	require.NoError(t, err)

	assert.Equal(t, "sam", a.Username)
	assert.NotEqual(t, a.Username, b.Username)
	assert.Contains(t, b.Username, "sam")
}

func TestRegister_ExplicitUsernameCollisionFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accountSvc.Register(ctx, &usecase.RegisterInput{
		Email:           "one@example.com",
		Username:        "taken",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.NoError(t, err)

	_, err = env.accountSvc.Register(ctx, &usecase.RegisterInput{
		Email:           "two@example.com",
		Username:        "TAKEN",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateAccount)
}

func TestVerifyEmail_DualModeTicket(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	out, err := env.accountSvc.Register(ctx, &usecase.RegisterInput{
		Email:           "dual@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.NoError(t, err)

	// The raw account ID works in place of the prefixed ticket value.
	verified, err := env.accountSvc.VerifyEmail(ctx, &usecase.VerifyEmailInput{
		Ticket: out.AccountID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, out.AccountID, verified.AccountID)
	assert.True(t, verified.RequiresProfileSetup)

	account, err := env.accounts.FindByID(ctx, out.AccountID)
	require.NoError(t, err)
	assert.True(t, account.Verified)
}

func TestVerifyEmail_TicketIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	out, err := env.accountSvc.Register(ctx, &usecase.RegisterInput{
		Email:           "once@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.NoError(t, err)

	_, err = env.accountSvc.VerifyEmail(ctx, &usecase.VerifyEmailInput{Ticket: out.DebugTicket})
	require.NoError(t, err)

	_, err = env.accountSvc.VerifyEmail(ctx, &usecase.VerifyEmailInput{Ticket: out.DebugTicket})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTicket)
}

func TestVerifyEmail_GarbageTicket(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, ticket := range []string{"", "verify-", "verify-nonsense", "bogus"} {
		_, err := env.accountSvc.VerifyEmail(ctx, &usecase.VerifyEmailInput{Ticket: ticket})
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTicket)
	}
}

func TestResendVerification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accountSvc.ResendVerification(ctx, &usecase.ResendVerificationInput{Email: "ghost@example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)

	out, err := env.accountSvc.Register(ctx, &usecase.RegisterInput{
		Email:           "resend@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.NoError(t, err)

	resent, err := env.accountSvc.ResendVerification(ctx, &usecase.ResendVerificationInput{Email: "resend@example.com"})
	require.NoError(t, err)
	assert.Equal(t, out.DebugTicket, resent.DebugTicket)

	_, err = env.accountSvc.VerifyEmail(ctx, &usecase.VerifyEmailInput{Ticket: resent.DebugTicket})
	require.NoError(t, err)

	_, err = env.accountSvc.ResendVerification(ctx, &usecase.ResendVerificationInput{Email: "resend@example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyVerified)
}

func TestForgotPassword_EnumerationResistant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerVerified(t, env, "known@example.com", "password123")

	known, err := env.accountSvc.ForgotPassword(ctx, &usecase.ForgotPasswordInput{Email: "known@example.com"})
	require.NoError(t, err)

	unknown, err := env.accountSvc.ForgotPassword(ctx, &usecase.ForgotPasswordInput{Email: "unknown@example.com"})
	require.NoError(t, err)

	// Same message either way; only the debug ticket differs, and that field
	// exists solely because no mail transport is wired.
	assert.Equal(t, known.Message, unknown.Message)
	assert.NotEmpty(t, known.DebugTicket)
	assert.Empty(t, unknown.DebugTicket)
}

func TestResetPassword_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerVerified(t, env, "reset@example.com", "password123")

	forgot, err := env.accountSvc.ForgotPassword(ctx, &usecase.ForgotPasswordInput{Email: "reset@example.com"})
	require.NoError(t, err)

	_, err = env.accountSvc.ResetPassword(ctx, &usecase.ResetPasswordInput{
		Ticket:          forgot.DebugTicket,
		NewPassword:     "newpassword456",
		ConfirmPassword: "newpassword456",
	})
	require.NoError(t, err)

	// Old secret no longer works, new one does.
	_, err = env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "reset@example.com", Password: "password123"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrWrongCredential)

	_, err = env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "reset@example.com", Password: "newpassword456"})
	require.NoError(t, err)
}

func TestResetPassword_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerVerified(t, env, "resetv@example.com", "password123")
	forgot, err := env.accountSvc.ForgotPassword(ctx, &usecase.ForgotPasswordInput{Email: "resetv@example.com"})
	require.NoError(t, err)

	_, err = env.accountSvc.ResetPassword(ctx, &usecase.ResetPasswordInput{
		Ticket:          forgot.DebugTicket,
		NewPassword:     "short",
		ConfirmPassword: "short",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.accountSvc.ResetPassword(ctx, &usecase.ResetPasswordInput{
		Ticket:          forgot.DebugTicket,
		NewPassword:     "newpassword456",
		ConfirmPassword: "different456",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.accountSvc.ResetPassword(ctx, &usecase.ResetPasswordInput{
		Ticket:          "reset-nonsense",
		NewPassword:     "newpassword456",
		ConfirmPassword: "newpassword456",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTicket)
}

func TestResetPassword_TicketIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerVerified(t, env, "single@example.com", "password123")
	forgot, err := env.accountSvc.ForgotPassword(ctx, &usecase.ForgotPasswordInput{Email: "single@example.com"})
	require.NoError(t, err)

	_, err = env.accountSvc.ResetPassword(ctx, &usecase.ResetPasswordInput{
		Ticket:          forgot.DebugTicket,
		NewPassword:     "newpassword456",
		ConfirmPassword: "newpassword456",
	})
	require.NoError(t, err)

	_, err = env.accountSvc.ResetPassword(ctx, &usecase.ResetPasswordInput{
		Ticket:          forgot.DebugTicket,
		NewPassword:     "anotherpass789",
		ConfirmPassword: "anotherpass789",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTicket)
}

func TestResetPassword_RevokesSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerVerified(t, env, "revoke@example.com", "password123")

	login, err := env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "revoke@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = env.sessionSvc.CurrentAccount(ctx, login.Token)
	require.NoError(t, err)

	forgot, err := env.accountSvc.ForgotPassword(ctx, &usecase.ForgotPasswordInput{Email: "revoke@example.com"})
	require.NoError(t, err)

	_, err = env.accountSvc.ResetPassword(ctx, &usecase.ResetPasswordInput{
		Ticket:          forgot.DebugTicket,
		NewPassword:     "newpassword456",
		ConfirmPassword: "newpassword456",
	})
	require.NoError(t, err)

	// The pre-reset token is dead even though its JWT has not expired.
	_, err = env.sessionSvc.CurrentAccount(ctx, login.Token)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)
}

func TestSeeder_EnsureAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seed := &usecase.SeedAccountInput{
		Email:       "admin@example.com",
		Username:    "admin",
		Secret:      "adminpass123",
		DisplayName: "Admin",
		Role:        entity.RoleAdmin,
		Tier:        entity.TierEnterprise,
	}
	require.NoError(t, env.seeder.EnsureAccount(ctx, seed))

	// Seeding is idempotent.
	require.NoError(t, env.seeder.EnsureAccount(ctx, seed))

	accounts, err := env.accounts.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.True(t, accounts[0].Verified)
	assert.Equal(t, entity.RoleAdmin, accounts[0].Role)

	// Seeded accounts can log in straight away.
	login, err := env.sessionSvc.Login(ctx, &usecase.LoginInput{Identity: "admin@example.com", Password: "adminpass123"})
	require.NoError(t, err)
	assert.Equal(t, accounts[0].ID, login.AccountID)
}
