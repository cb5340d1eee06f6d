// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
// Username is optional; when empty it is derived from the email local-part.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Username        string
	DisplayName     string
	Organization    string
}

// VerifyEmailInput carries the verification ticket. The value may be a full
// issued ticket ("verify-{id}") or a raw account ID.
type VerifyEmailInput struct {
	Ticket string
}

// ForgotPasswordInput identifies the account requesting a reset.
type ForgotPasswordInput struct {
	Email string
}

// ResetPasswordInput carries the reset ticket and the replacement secret.
type ResetPasswordInput struct {
	Ticket          string
	NewPassword     string
	ConfirmPassword string
}

// ResendVerificationInput identifies the account requesting a fresh
// verification ticket.
type ResendVerificationInput struct {
	Email string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account's basic information.
// DebugTicket carries the verification ticket in debug deployments, where no
// mail transport exists to deliver it.
type RegisterOutput struct {
	Message     string    `json:"message"`
	AccountID   uuid.UUID `json:"account_id"`
	Email       string    `json:"email"`
	DebugTicket string    `json:"debug_ticket,omitempty"`
}

// VerifyEmailOutput confirms a completed verification.
type VerifyEmailOutput struct {
	Message              string    `json:"message"`
	AccountID            uuid.UUID `json:"account_id"`
	Email                string    `json:"email"`
	RequiresProfileSetup bool      `json:"requires_profile_setup"`
}

// ForgotPasswordOutput is structurally identical whether or not the email
// resolved to an account, so callers cannot probe the directory.
type ForgotPasswordOutput struct {
	Message     string `json:"message"`
	DebugTicket string `json:"debug_ticket,omitempty"`
}

// ResetPasswordOutput confirms a completed password reset.
type ResetPasswordOutput struct {
	Message string `json:"message"`
}

// ResendVerificationOutput confirms a re-issued verification ticket.
type ResendVerificationOutput struct {
	Message     string `json:"message"`
	DebugTicket string `json:"debug_ticket,omitempty"`
}

// AccountUsecase defines the interface for account lifecycle operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	VerifyEmail(ctx context.Context, input *VerifyEmailInput) (*VerifyEmailOutput, error)
	ForgotPassword(ctx context.Context, input *ForgotPasswordInput) (*ForgotPasswordOutput, error)
	ResetPassword(ctx context.Context, input *ResetPasswordInput) (*ResetPasswordOutput, error)
	ResendVerification(ctx context.Context, input *ResendVerificationInput) (*ResendVerificationOutput, error)
}

// SeedAccountInput describes one account ensured at startup.
type SeedAccountInput struct {
	Email        string
	Username     string
	Secret       string
	DisplayName  string
	Organization string
	Role         entity.Role
	Tier         entity.Tier
}

// Seeder provisions configured accounts at startup so a fresh deployment has
// known logins.
type Seeder interface {
	EnsureAccount(ctx context.Context, input *SeedAccountInput) error
}
