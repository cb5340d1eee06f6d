package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims carried by bearer tokens.
type Claims struct {
	AccountID uuid.UUID
	Role      string
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating bearer
// tokens. Tokens are signed and time-bounded; the usecases additionally
// track a session record per token so logout can revoke them server-side.
type TokenService interface {
	// Generate creates a new signed bearer token for an account.
	Generate(accountID uuid.UUID, role string) (token string, err error)

	// Validate checks the signature and expiry of a token string.
	Validate(tokenString string) (*Claims, error)

	// HashToken returns the digest under which a token's session record is
	// stored, so raw tokens never sit in the store.
	HashToken(token string) string

	// TokenDuration returns the configured lifetime for bearer tokens.
	TokenDuration() time.Duration
}
