// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session represents an authorized login. A bearer token is honored only
// while its session record exists and has not expired, which turns logout
// into an actual server-side invalidation instead of a client-side forget.
type Session struct {
	ID        uuid.UUID // The unique ID for this session record.
	AccountID uuid.UUID // Links this session to the Account it belongs to.
	TokenHash string    // Stores a SHA-256 hash of the bearer token for secure comparison in the store.
	ExpiresAt time.Time // The exact time when this session will expire and become invalid.
	CreatedAt time.Time // Timestamp of when this session was created (i.e., when the account logged in).
}

// Active reports whether the session is still valid at the given instant.
func (s *Session) Active(now time.Time) bool {
	return s != nil && s.ExpiresAt.After(now)
}
