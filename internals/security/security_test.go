package security

import (
	"healthwatch/config"
	"healthwatch/pkg/apperror"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	ok, err := ComparePassword("s3cret-pass", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = ComparePassword("x", "not-a-hash")
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	ts := NewTokenService(&config.AuthConfig{Secret: "test-secret", ExpiryMin: 15})
	id := uuid.New()

	token, err := ts.GenerateAccessToken(id, "owner@example.com")
	require.NoError(t, err)

	claims, err := ts.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
}

func TestTokenRejected(t *testing.T) {
	ts := NewTokenService(&config.AuthConfig{Secret: "test-secret", ExpiryMin: 15})
	token, err := ts.GenerateAccessToken(uuid.New(), "owner@example.com")
	require.NoError(t, err)

	other := NewTokenService(&config.AuthConfig{Secret: "another-secret", ExpiryMin: 15})
	_, err = other.ValidateAccessToken(token)
	assert.True(t, apperror.IsKind(err, apperror.Unauthorised))

	ts.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = ts.ValidateAccessToken(token)
	assert.True(t, apperror.IsKind(err, apperror.Unauthorised), "expired token must be rejected")

	_, err = ts.ValidateAccessToken("garbage")
	assert.True(t, apperror.IsKind(err, apperror.Unauthorised))
}

func TestRefreshToken(t *testing.T) {
	ts := NewTokenService(&config.AuthConfig{Secret: "test-secret", ExpiryMin: 15, RefreshExpiryMin: 120})
	id := uuid.New()

	refresh, err := ts.GenerateRefreshToken(id, "owner@example.com")
	require.NoError(t, err)

	claims, err := ts.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)

	// still valid after the access lifetime, not after its own
	ts.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = ts.ValidateRefreshToken(refresh)
	assert.NoError(t, err)

	ts.now = func() time.Time { return time.Now().Add(3 * time.Hour) }
	_, err = ts.ValidateRefreshToken(refresh)
	assert.True(t, apperror.IsKind(err, apperror.Unauthorised))
}

func TestTokenUsesAreNotInterchangeable(t *testing.T) {
	ts := NewTokenService(&config.AuthConfig{Secret: "test-secret", ExpiryMin: 15, RefreshExpiryMin: 120})
	id := uuid.New()

	access, err := ts.GenerateAccessToken(id, "owner@example.com")
	require.NoError(t, err)
	refresh, err := ts.GenerateRefreshToken(id, "owner@example.com")
	require.NoError(t, err)

	_, err = ts.ValidateRefreshToken(access)
	assert.True(t, apperror.IsKind(err, apperror.Unauthorised), "access token used as refresh token")

	_, err = ts.ValidateAccessToken(refresh)
	assert.True(t, apperror.IsKind(err, apperror.Unauthorised), "refresh token used as access token")
}
