// Package sqlite contains the concrete implementation of the persistence
// layer using GORM with a pure-Go SQLite driver. It backs deployments that
// need accounts and sessions to survive a restart.
package sqlite

import (
	"context"
	"log/slog"

	"warden/config"
	"warden/internal/domain/lifecycle"
	"warden/internal/errors"
	"warden/internal/infra/persistence/model"

	"github.com/glebarez/sqlite"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// memoryDSN keeps a shared in-process database alive across connections.
// Used when no path is configured, which matches the development default.
const memoryDSN = "file::memory:?cache=shared"

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New creates the SQLite client and migrates the schema.
func New(params Params) (*gorm.DB, error) {
	dsn := params.Config.Storage.Path
	if dsn == "" {
		dsn = memoryDSN
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		// SQLite serializes writers anyway; skipping GORM's implicit
		// per-statement transaction avoids redundant BEGIN/COMMIT pairs.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SQLite database")
	}

	if err := db.AutoMigrate(
		&model.AccountModel{},
		&model.SessionModel{},
		&model.TicketModel{},
	); err != nil {
		return nil, errors.Wrap(err, "failed to migrate SQLite schema")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get SQLite sql.DB")
	}

	// Add lifecycle management
	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping SQLite")
			}

			return nil
		},
		OnStop: func(_ context.Context) error {
			return sqlDB.Close()
		},
	})

	return db, nil
}
