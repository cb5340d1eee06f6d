// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the core entity in the system, representing one registered user
// of the fine-tuning platform. Email and Username are both login aliases and
// are unique (case-insensitively) across the directory.
type Account struct {
	ID                   uuid.UUID `json:"id"`                     // The unique identifier for the account. Assigned at creation, never mutated or reused.
	Email                string    `json:"email"`                  // The account's email address, used as a login alias.
	Username             string    `json:"username"`               // The account's username, used as a login alias. Derived from the email local-part when not supplied.
	PasswordHash         string    `json:"-"`                      // Stores the bcrypt-hashed credential secret. Never the plaintext secret.
	DisplayName          string    `json:"display_name"`           // Free-text display name, optional.
	Organization         string    `json:"organization"`           // Free-text organization, optional.
	Verified             bool      `json:"verified"`               // Whether the email has been verified. Monotonic: once true it never reverts.
	Role                 Role      `json:"role"`                   // The account's role, defaults to RoleUser.
	Tier                 Tier      `json:"tier"`                   // The account's subscription tier, defaults to TierFree.
	RequiresProfileSetup bool      `json:"requires_profile_setup"` // Whether the account still needs to complete its profile after verification.
	CreatedAt            time.Time `json:"created_at"`             // Timestamp of when this account was created.
	UpdatedAt            time.Time `json:"updated_at"`             // Timestamp of the last modification to this account.
}

// Sanitized returns a copy of the account with the credential hash stripped,
// suitable for returning to callers.
func (a *Account) Sanitized() *Account {
	if a == nil {
		return nil
	}

	clean := *a
	clean.PasswordHash = ""

	return &clean
}
