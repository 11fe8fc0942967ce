package jwt_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/pkg/jwt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := jwt.NewManager("test-secret", 15*time.Minute, 72*time.Hour)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, "reader@example.com", "member")
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "reader@example.com", claims.Email)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, "access", claims.Type)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	manager := jwt.NewManager("test-secret", 15*time.Minute, 72*time.Hour)

	token, err := manager.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)

	claims, err := manager.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.Type)
}

func TestExpiredTokenRejected(t *testing.T) {
	manager := jwt.NewManager("test-secret", -time.Minute, 72*time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), "reader@example.com", "member")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	manager := jwt.NewManager("test-secret", 15*time.Minute, 72*time.Hour)
	other := jwt.NewManager("other-secret", 15*time.Minute, 72*time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), "reader@example.com", "member")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}
