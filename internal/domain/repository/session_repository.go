// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for session persistence.
var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session record has expired.
	ErrSessionExpired = errors.New("session has expired")
)

// SessionRepository defines the interface for server-tracked session records.
// Deleting a session is how logout actually revokes a bearer token.
type SessionRepository interface {
	// CreateSession persists a new session record, representing a login.
	CreateSession(ctx context.Context, session *entity.Session) error

	// FindSessionByTokenHash retrieves a session record by its stored token hash.
	FindSessionByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error)

	// DeleteSessionByTokenHash deletes a session by its token hash, ending the
	// login. Deleting a session that does not exist is not an error.
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteSessionsByAccountID removes all sessions for an account. Used
	// after a password reset so stolen tokens stop working.
	DeleteSessionsByAccountID(ctx context.Context, accountID uuid.UUID) error

	// DeleteExpiredSessions removes all expired session records.
	DeleteExpiredSessions(ctx context.Context) error

	// CountActiveSessionsByAccountID returns the number of unexpired sessions
	// for an account.
	CountActiveSessionsByAccountID(ctx context.Context, accountID uuid.UUID) (int, error)
}
