package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"warden/config"
	"warden/internal/domain/repository"
	"warden/internal/infra/auth"
	"warden/internal/infra/persistence/memory"
	"warden/internal/usecase"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testEnv wires the services against the real in-memory repositories so the
// tests exercise the same store semantics production uses.
type testEnv struct {
	accounts   repository.AccountRepository
	sessions   repository.SessionRepository
	tickets    repository.TicketRepository
	accountSvc usecase.AccountUsecase
	sessionSvc usecase.SessionUsecase
	profileSvc usecase.ProfileUsecase
	seeder     usecase.Seeder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	return newTestEnvWithConfig(t, nil)
}

func newTestEnvWithConfig(t *testing.T, tweak func(*config.Config)) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.Env.Debug = true
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.Auth = &config.AuthConfig{
		BcryptCost:      bcrypt.MinCost,
		MinSecretLength: 8,
		TokenTTL:        time.Hour,
		TicketTTL:       time.Hour,
	}

	if tweak != nil {
		tweak(cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	accountRepo := memory.NewAccountRepository(store)
	sessionRepo := memory.NewSessionRepository(store)
	ticketRepo := memory.NewTicketRepository(store)
	hasher := auth.NewBcryptHasherWithCost(bcrypt.MinCost)

	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	accountParams := AccountServiceParams{
		AccountRepo: accountRepo,
		SessionRepo: sessionRepo,
		TicketRepo:  ticketRepo,
		Hasher:      hasher,
		Config:      cfg,
		Logger:      logger,
	}

	return &testEnv{
		accounts:   accountRepo,
		sessions:   sessionRepo,
		tickets:    ticketRepo,
		accountSvc: NewAccountService(accountParams),
		seeder:     NewSeeder(accountParams),
		sessionSvc: NewSessionService(SessionServiceParams{
			AccountRepo:  accountRepo,
			SessionRepo:  sessionRepo,
			Hasher:       hasher,
			TokenService: tokenService,
			Config:       cfg,
			Logger:       logger,
		}),
		profileSvc: NewProfileService(ProfileServiceParams{
			AccountRepo: accountRepo,
			Logger:      logger,
		}),
	}
}

// registerVerified registers an account and walks it through verification via
// the debug ticket, returning the register output.
func registerVerified(t *testing.T, env *testEnv, email, password string) *usecase.RegisterOutput {
	t.Helper()
	ctx := context.Background()

	out, err := env.accountSvc.Register(ctx, &usecase.RegisterInput{
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.DebugTicket)

	_, err = env.accountSvc.VerifyEmail(ctx, &usecase.VerifyEmailInput{Ticket: out.DebugTicket})
	require.NoError(t, err)

	return out
}
