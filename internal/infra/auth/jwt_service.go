// Package auth provides concrete implementations for authentication-related
// domain services.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"warden/config"
	"warden/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using
// the JWT standard.
type jwtService struct {
	secret   string        // Secret key for signing bearer tokens.
	tokenTTL time.Duration // Time-to-live for bearer tokens.
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	tokenTTL := 24 * time.Hour
	if cfg.Auth != nil && cfg.Auth.TokenTTL > 0 {
		tokenTTL = cfg.Auth.TokenTTL
	}

	return &jwtService{
		secret:   cfg.SecretKey.Access,
		tokenTTL: tokenTTL,
	}, nil
}

// Generate creates a new signed bearer token for an account.
func (s *jwtService) Generate(accountID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  accountID.String(),           // Subject (who the token is for)
		"role": role,                         // Role for stateless authorization
		"iat":  now.Unix(),                   // Issued At
		"exp":  now.Add(s.tokenTTL).Unix(),   // Expiration Time
		"jti":  uuid.New().String(),          // Unique token id, so two logins never share a hash
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.secret))
}

// Validate checks the signature and expiry of a token string and extracts
// the claims.
func (s *jwtService) Validate(tokenString string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse token")
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	sub, _ := mapClaims["sub"].(string)
	accountID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.Wrap(err, "parse subject claim")
	}

	role, _ := mapClaims["role"].(string)

	return &service.Claims{
		AccountID: accountID,
		Role:      role,
	}, nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token.
func (s *jwtService) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

// TokenDuration returns the configured lifetime for bearer tokens.
func (s *jwtService) TokenDuration() time.Duration {
	return s.tokenTTL
}
