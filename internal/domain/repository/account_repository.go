// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers
// and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for account persistence. The application layer
// handles these without depending on store-specific errors.
var (
	// ErrAccountNotFound is returned when no account matches the lookup.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateEmail is returned when a create collides on the email alias.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateUsername is returned when a create collides on the username alias.
	ErrDuplicateUsername = errors.New("username already registered")
)

// AccountRepository defines the standard operations for account persistence.
// Lookups by email and username are case-insensitive; Create enforces both
// uniqueness invariants atomically so that exactly one of two concurrent
// registrations for the same alias wins.
type AccountRepository interface {
	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves a single account by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindByUsername retrieves a single account by its username.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)

	// Create persists a new account, enforcing alias uniqueness.
	Create(ctx context.Context, account *entity.Account) error

	// Update modifies an existing account.
	Update(ctx context.Context, account *entity.Account) error

	// List returns all accounts in the directory.
	List(ctx context.Context) ([]*entity.Account, error)
}
