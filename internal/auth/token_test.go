package auth

import (
	"errors"
	"testing"
	"time"

	"estate_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m, err := NewTokenManager("secret", time.Hour)
	require.NoError(t, err)

	token, err := m.GenerateToken("user-1", models.UserRoleSeller)
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.UserRoleSeller, claims.Role)
	assert.Equal(t, models.Actor{UserID: "user-1", Role: models.UserRoleSeller}, claims.Actor())
}

func TestTokenManager_Rejects(t *testing.T) {
	m, err := NewTokenManager("secret", time.Minute)
	require.NoError(t, err)

	token, err := m.GenerateToken("user-1", models.UserRoleBuyer)
	require.NoError(t, err)

	other, err := NewTokenManager("another-secret", time.Minute)
	require.NoError(t, err)
	_, err = other.ParseToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken), "Чужая подпись должна отклоняться")

	_, err = m.ParseToken("garbage")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	// Токен истек
	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.ParseToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestTokenManager_RejectsUnknownRole(t *testing.T) {
	m, err := NewTokenManager("secret", time.Minute)
	require.NoError(t, err)

	token, err := m.GenerateToken("user-1", "guest")
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)

	m, err := NewTokenManager("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, m.ttl)
}

func TestPermissions(t *testing.T) {
	assert.True(t, HasPermission(models.UserRoleBuyer, PermBookingsCreate))
	assert.True(t, HasPermission(models.UserRoleBuyer, PermBookingsCancel))
	assert.False(t, HasPermission(models.UserRoleBuyer, PermBookingsUpdateStatus))

	assert.True(t, HasPermission(models.UserRoleSeller, PermBookingsUpdateStatus))
	assert.False(t, HasPermission(models.UserRoleSeller, PermBookingsCreate))
	assert.False(t, HasPermission(models.UserRoleSeller, PermTransactionsRead))

	assert.True(t, HasPermission(models.UserRoleAdmin, PermPropertiesSetStatus))
	assert.False(t, HasPermission(models.UserRoleAdmin, PermBookingsCreate))
	assert.False(t, HasPermission("guest", PermTransactionsRead))

	assert.True(t, HasPermission(models.UserRoleSeller, PermPropertiesCreate))
	assert.False(t, HasPermission(models.UserRoleBuyer, PermPropertiesCreate))
	assert.True(t, HasPermission(models.UserRoleBuyer, PermSavedProperties))
	assert.True(t, HasPermission(models.UserRoleBuyer, PermTicketsCreate))
	assert.False(t, HasPermission(models.UserRoleBuyer, PermTicketsManage))
	assert.True(t, HasPermission(models.UserRoleAdmin, PermTicketsManage))
	assert.False(t, HasPermission(models.UserRoleSeller, PermTicketsRead))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("Str0ngPass!")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("Str0ngPass!", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
