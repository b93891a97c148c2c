package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"siruang/internal/auth"
	"siruang/internal/database"
	"siruang/internal/domain"
	"siruang/internal/models"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAdminCode   = errors.New("invalid admin registration code")
)

// UserService handles registration, login and the current-user lookup.
type UserService struct {
	store      domain.Store
	tokens     *auth.TokenManager
	adminCode  string
	bcryptCost int
	logger     *zerolog.Logger
}

func NewUserService(store domain.Store, tokens *auth.TokenManager, adminCode string, bcryptCost int, logger *zerolog.Logger) *UserService {
	return &UserService{
		store:      store,
		tokens:     tokens,
		adminCode:  adminCode,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a user account. Admin accounts require the registration
// code configured on the server.
func (s *UserService) Register(ctx context.Context, username, email, password string, wantAdmin bool, adminCode string) (*models.User, error) {
	role := models.RoleUser
	if wantAdmin {
		if s.adminCode == "" ||
			subtle.ConstantTimeCompare([]byte(adminCode), []byte(s.adminCode)) != 1 {
			return nil, ErrInvalidAdminCode
		}
		role = models.RoleAdmin
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the user with a fresh token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("user logged in")
	return user, token, nil
}

// Logout revokes the presented token for its remaining lifetime.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.tokens.Revoke(ctx, claims)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}
