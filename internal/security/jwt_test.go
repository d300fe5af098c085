package security

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret-key-32-characters!!!", 15*time.Minute, 7*24*time.Hour)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestJWTManager_ExpiredAccessToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key-32-characters!!!", -time.Minute, time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), "user@example.com")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret-key-32-characters!!!", 15*time.Minute, time.Hour)
	other := NewJWTManager("another-secret-key-32-chars!!!!!", 15*time.Minute, time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), "user@example.com")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RefreshTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret-key-32-characters!!!", 15*time.Minute, 7*24*time.Hour)
	userID := uuid.New()

	token, err := manager.GenerateRefreshToken(userID)
	require.NoError(t, err)

	got, err := manager.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTManager_TokenPair(t *testing.T) {
	manager := NewJWTManager("test-secret-key-32-characters!!!", 15*time.Minute, 7*24*time.Hour)

	access, refresh, expiresIn, err := manager.GenerateTokenPair(uuid.New(), "user@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, int64(900), expiresIn)
}
