package auth

import (
	"context"
	"testing"
	"time"

	"siruang/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, nil)

	user := &models.User{ID: 7, Username: "budi", Email: "budi@kampus.ac.id", Role: models.RoleAdmin}
	token, err := m.Issue(user)
	require.NoError(t, err)

	claims, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "budi", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)

	actor := claims.Actor()
	assert.EqualValues(t, 7, actor.ID)
	assert.Equal(t, models.RoleAdmin, actor.Role)
}

func TestVerify_WrongSecret(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, nil)
	other := NewTokenManager("different", time.Hour, nil)

	token, err := m.Issue(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = other.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	m := &TokenManager{secret: []byte("secret"), ttl: -time.Minute}

	token, err := m.Issue(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, nil)

	_, err := m.Verify(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("rahasia123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "rahasia123", hash)

	assert.True(t, CheckPassword(hash, "rahasia123"))
	assert.False(t, CheckPassword(hash, "salah"))
}
