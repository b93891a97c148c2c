package service

import (
	"context"
	"testing"
	"time"

	"siruang/internal/auth"
	"siruang/internal/database"
	"siruang/internal/models"
	"siruang/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) *UserService {
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens := auth.NewTokenManager("test-secret", time.Hour, repository.NewMemoryTokenStore())
	// Low bcrypt cost keeps the test fast.
	return NewUserService(db, tokens, "rahasia-admin", 4, &logger)
}

func TestRegister_DefaultRole(t *testing.T) {
	s := newUserService(t)

	user, err := s.Register(context.Background(), "budi", "budi@kampus.ac.id", "password123", false, "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestRegister_AdminCode(t *testing.T) {
	s := newUserService(t)

	_, err := s.Register(context.Background(), "x", "x@kampus.ac.id", "password123", true, "salah")
	assert.ErrorIs(t, err, ErrInvalidAdminCode)

	admin, err := s.Register(context.Background(), "admin", "admin@kampus.ac.id", "password123", true, "rahasia-admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "budi", "budi@kampus.ac.id", "password123", false, "")
	require.NoError(t, err)

	_, err = s.Register(ctx, "budi2", "budi@kampus.ac.id", "password123", false, "")
	assert.ErrorIs(t, err, database.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "budi", "budi@kampus.ac.id", "password123", false, "")
	require.NoError(t, err)

	user, token, err := s.Login(ctx, "budi@kampus.ac.id", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "budi", user.Username)

	// Wrong password and unknown email fail identically.
	_, _, err = s.Login(ctx, "budi@kampus.ac.id", "salah")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login(ctx, "tidak-ada@kampus.ac.id", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_RevokesToken(t *testing.T) {
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens := auth.NewTokenManager("test-secret", time.Hour, repository.NewMemoryTokenStore())
	s := NewUserService(db, tokens, "", 4, &logger)
	ctx := context.Background()

	_, err = s.Register(ctx, "budi", "budi@kampus.ac.id", "password123", false, "")
	require.NoError(t, err)
	_, token, err := s.Login(ctx, "budi@kampus.ac.id", "password123")
	require.NoError(t, err)

	claims, err := tokens.Verify(ctx, token)
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, claims))

	_, err = tokens.Verify(ctx, token)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}
