package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"warden/config"
	"warden/internal/delivery"
	"warden/internal/delivery/http"
	"warden/internal/delivery/http/middleware"
	"warden/internal/delivery/http/router/handler"
	"warden/internal/domain/entity"
	"warden/internal/domain/repository"
	"warden/internal/domain/service"
	"warden/internal/errors"
	"warden/internal/infra/auth"
	logs "warden/internal/infra/log"
	"warden/internal/infra/persistence/memory"
	"warden/internal/infra/persistence/sqlite"
	"warden/internal/usecase"
	"warden/internal/usecase/impl"

	"go.uber.org/fx"
)

// sessionSweepInterval is how often expired session records are purged.
const sessionSweepInterval = time.Hour

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			seedAccounts,
			startSessionSweeper,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
	)
}

// repoResult bundles the repositories so one provider can pick the backend.
type repoResult struct {
	fx.Out

	Accounts repository.AccountRepository
	Sessions repository.SessionRepository
	Tickets  repository.TicketRepository
}

// newRepositories selects the persistence backend from configuration. The
// memory driver serves demo deployments; sqlite survives restarts.
func newRepositories(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (repoResult, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		db, err := sqlite.New(sqlite.Params{Lifecycle: lc, Config: cfg, Logger: logger})
		if err != nil {
			return repoResult{}, errors.Wrap(err, "failed to initialize sqlite storage")
		}

		return repoResult{
			Accounts: sqlite.NewAccountRepository(db),
			Sessions: sqlite.NewSessionRepository(db),
			Tickets:  sqlite.NewTicketRepository(db),
		}, nil
	case "", "memory":
		store := memory.NewStore()

		return repoResult{
			Accounts: memory.NewAccountRepository(store),
			Sessions: memory.NewSessionRepository(store),
			Tickets:  memory.NewTicketRepository(store),
		}, nil
	default:
		return repoResult{}, errors.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			newRepositories,
		),
	)
}

// newPasswordHasher creates the bcrypt hasher with the configured cost.
func newPasswordHasher(cfg *config.Config) service.PasswordHasher {
	if cfg.Auth == nil || cfg.Auth.BcryptCost <= 0 {
		return auth.NewBcryptHasher()
	}

	return auth.NewBcryptHasherWithCost(cfg.Auth.BcryptCost)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newPasswordHasher,
			auth.NewJWTService,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
			impl.NewSessionService,
			impl.NewProfileService,
			impl.NewSeeder,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccountHandler,
			handler.NewSessionHandler,
			handler.NewProfileHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// seedAccounts provisions the configured accounts before the server starts
// accepting requests. Existing accounts are left untouched.
func seedAccounts(ctx context.Context, cfg *config.Config, seeder usecase.Seeder, logger *slog.Logger) error {
	for _, seed := range cfg.Seed {
		input := &usecase.SeedAccountInput{
			Email:        seed.Email,
			Username:     seed.Username,
			Secret:       seed.Secret,
			DisplayName:  seed.DisplayName,
			Organization: seed.Organization,
			Role:         entity.Role(seed.Role),
			Tier:         entity.Tier(seed.Tier),
		}
		if err := seeder.EnsureAccount(ctx, input); err != nil {
			return errors.Wrapf(err, "failed to seed account %s", seed.Email)
		}

		logger.Info("Seed account ensured", slog.String("email", seed.Email))
	}

	return nil
}

// startSessionSweeper purges expired session records on a fixed interval so
// the session table does not grow without bound.
func startSessionSweeper(lc fx.Lifecycle, sessions usecase.SessionUsecase, logger *slog.Logger) {
	sweepCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)

				ticker := time.NewTicker(sessionSweepInterval)
				defer ticker.Stop()

				for {
					select {
					case <-sweepCtx.Done():
						return
					case <-ticker.C:
						if err := sessions.CleanupExpiredSessions(sweepCtx); err != nil {
							logger.Warn("Session sweep failed", slog.Any("error", err))
						}
					}
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
			}

			return nil
		},
	})
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
