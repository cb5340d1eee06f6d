// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// LoginInput defines the data required for an account to log in. Identity is
// either an email address or a username; parsing decides which.
type LoginInput struct {
	Identity string
	Password string
}

// --- Output DTOs ---

// LoginOutput returns the issued bearer token after a successful login.
type LoginOutput struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	AccountID uuid.UUID       `json:"account_id"`
	Account   *entity.Account `json:"account"`
}

// SessionUsecase defines the interface for session-related business operations.
type SessionUsecase interface {
	// Login validates the credential and issues a bearer token backed by a
	// session record.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// CurrentAccount resolves a bearer token to its account. The returned
	// account has its credential hash stripped.
	CurrentAccount(ctx context.Context, token string) (*entity.Account, error)

	// Logout revokes the session behind the given token. Always succeeds;
	// revoking an unknown token is a no-op.
	Logout(ctx context.Context, token string) error

	// CleanupExpiredSessions removes session records past their expiry.
	CleanupExpiredSessions(ctx context.Context) error
}
