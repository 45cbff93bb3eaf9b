package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/specialist-marketplace/internal/config"
	"github.com/spec-kit/specialist-marketplace/internal/domain"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessToken:   config.TokenConfig{Secret: "access-secret", TTL: 15 * time.Minute},
		RefreshToken:  config.TokenConfig{Secret: "refresh-secret", TTL: 30 * 24 * time.Hour},
		PasswordReset: config.TokenConfig{Secret: "reset-secret", TTL: 30 * time.Minute},
		BcryptCost:    4,
	}
}

func TestGenerateAndVerifyRoundTrip(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	token, expiresAt, err := tm.Generate(TokenKindAccess, "user-1", "user@example.com", domain.UserRoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.Verify(token, TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, domain.UserRoleAdmin, claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	refresh, _, err := tm.Generate(TokenKindRefresh, "user-1", "user@example.com", domain.UserRoleUser)
	require.NoError(t, err)

	// A refresh token presented as an access token fails the signature
	// check because each kind signs with its own secret.
	_, err = tm.Verify(refresh, TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyExpiredToken(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	token, _, err := tm.Generate(TokenKindAccess, "user-1", "user@example.com", domain.UserRoleUser)
	require.NoError(t, err)

	tm.now = func() time.Time { return time.Now().Add(16 * time.Minute) }
	_, err = tm.Verify(token, TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTamperedSignature(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())
	other := NewTokenManager(config.AuthConfig{
		AccessToken: config.TokenConfig{Secret: "different-secret", TTL: 15 * time.Minute},
	})

	token, _, err := other.Generate(TokenKindAccess, "user-1", "user@example.com", domain.UserRoleUser)
	require.NoError(t, err)

	_, err = tm.Verify(token, TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyMalformedToken(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	_, err := tm.Verify("not-a-jwt", TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestGeneratePairUsesDistinctLifetimes(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	pair, err := tm.GeneratePair("user-1", "user@example.com", domain.UserRoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	assert.NoError(t, ComparePassword(hash, "s3cret"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
