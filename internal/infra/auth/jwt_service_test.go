package auth

import (
	"testing"
	"time"

	"warden/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.Auth = &config.AuthConfig{TokenTTL: time.Hour}

	return cfg
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	jwtService, err := NewJWTService(testJWTConfig(t))
	require.NoError(t, err)
	require.NotNil(t, jwtService)

	accountID := uuid.New()

	token, err := jwtService.Generate(accountID, "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, accountID, claims.AccountID)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(testJWTConfig(t))
	require.NoError(t, err)

	_, err = jwtService.Validate("not.a.token")
	assert.Error(t, err)

	_, err = jwtService.Validate("")
	assert.Error(t, err)
}

func TestJWTService_WrongSecret(t *testing.T) {
	jwtService, err := NewJWTService(testJWTConfig(t))
	require.NoError(t, err)

	otherCfg := testJWTConfig(t)
	otherCfg.SecretKey.Access = "a_completely_different_secret_key_for_testing"
	otherService, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	token, err := jwtService.Generate(uuid.New(), "user")
	require.NoError(t, err)

	_, err = otherService.Validate(token)
	assert.Error(t, err)
}

func TestJWTService_MissingSecret(t *testing.T) {
	cfg := &config.Config{}

	_, err := NewJWTService(cfg)
	assert.Error(t, err)
}

func TestJWTService_TokensAreUnique(t *testing.T) {
	jwtService, err := NewJWTService(testJWTConfig(t))
	require.NoError(t, err)

	accountID := uuid.New()

	first, err := jwtService.Generate(accountID, "user")
	require.NoError(t, err)
	second, err := jwtService.Generate(accountID, "user")
	require.NoError(t, err)

	// Two logins must never share a session hash.
	assert.NotEqual(t, jwtService.HashToken(first), jwtService.HashToken(second))
}

func TestJWTService_HashTokenIsStable(t *testing.T) {
	jwtService, err := NewJWTService(testJWTConfig(t))
	require.NoError(t, err)

	assert.Equal(t, jwtService.HashToken("abc"), jwtService.HashToken("abc"))
	assert.NotEqual(t, jwtService.HashToken("abc"), jwtService.HashToken("abd"))
	assert.Len(t, jwtService.HashToken("abc"), 64)
}
