package auth

import (
	"testing"
	"time"

	"github.com/dabinj96/Peaberry-sub000/config"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	svc, err := NewJWTService(testJWTConfig())
	require.NoError(t, err)

	pair, err := svc.GenerateTokens(42, entity.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	accessClaims, err := svc.ValidateToken(pair.AccessToken, service.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), accessClaims.AccountID)
	assert.Equal(t, entity.RoleAdmin, accessClaims.Role)
	assert.Equal(t, service.TokenTypeAccess, accessClaims.Type)

	refreshClaims, err := svc.ValidateToken(pair.RefreshToken, service.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, uint(42), refreshClaims.AccountID)
	assert.Empty(t, refreshClaims.Role, "refresh tokens carry no role")
}

func TestJWTService_TokenTypeMismatch(t *testing.T) {
	svc, err := NewJWTService(testJWTConfig())
	require.NoError(t, err)

	pair, err := svc.GenerateTokens(1, entity.RoleUser)
	require.NoError(t, err)

	// A refresh token can never pass as an access token: the secrets and
	// the embedded type claim both differ.
	_, err = svc.ValidateToken(pair.RefreshToken, service.TokenTypeAccess)
	assert.Error(t, err)

	_, err = svc.ValidateToken(pair.AccessToken, service.TokenTypeRefresh)
	assert.Error(t, err)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc, err := NewJWTService(testJWTConfig())
	require.NoError(t, err)

	_, err = svc.ValidateToken("clearly-not-a-jwt", service.TokenTypeAccess)
	assert.Error(t, err)

	// A token signed with a different secret is rejected.
	other := testJWTConfig()
	other.SecretKey.Access = "some_completely_different_access_secret"
	otherSvc, err := NewJWTService(other)
	require.NoError(t, err)

	pair, err := otherSvc.GenerateTokens(1, entity.RoleUser)
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken, service.TokenTypeAccess)
	assert.Error(t, err)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := &jwtService{
		accessSecret:  "secret",
		refreshSecret: "secret",
		accessTTL:     -time.Minute,
		refreshTTL:    -time.Minute,
	}

	pair, err := svc.GenerateTokens(1, entity.RoleUser)
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken, service.TokenTypeAccess)
	assert.Error(t, err)
}

func TestJWTService_ConfiguredTTL(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Auth = &config.AuthConfig{RefreshTokenTTL: 48 * time.Hour}

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, svc.GetRefreshTokenDuration())
}

func TestJWTService_HashToken(t *testing.T) {
	svc, err := NewJWTService(testJWTConfig())
	require.NoError(t, err)

	h1 := svc.HashToken("some-token")
	h2 := svc.HashToken("some-token")
	assert.Equal(t, h1, h2, "hashing is deterministic")
	assert.Len(t, h1, 64, "hex SHA-256")
	assert.NotEqual(t, h1, svc.HashToken("other-token"))
}

func TestJWTService_MissingSecrets(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}
