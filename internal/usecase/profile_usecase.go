// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CompleteProfileInput carries the profile fields to merge. Nil pointers
// leave the stored value untouched.
type CompleteProfileInput struct {
	DisplayName  *string
	Organization *string
}

// ProfileUsecase defines the interface for profile and directory operations.
type ProfileUsecase interface {
	// GetProfile returns the sanitized account for the given ID.
	GetProfile(ctx context.Context, accountID uuid.UUID) (*entity.Account, error)

	// CompleteProfile merges the supplied fields into the account and clears
	// the profile-setup flag.
	CompleteProfile(ctx context.Context, accountID uuid.UUID, input *CompleteProfileInput) (*entity.Account, error)

	// ListAccounts returns the sanitized directory. Admin-only at the
	// delivery layer.
	ListAccounts(ctx context.Context) ([]*entity.Account, error)
}
