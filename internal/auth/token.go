package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"siruang/internal/domain"
	"siruang/internal/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenRevoked = errors.New("token revoked")
)

// Claims carried in the access token, mirroring the /auth/me payload.
type Claims struct {
	UserID   int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 access tokens, consulting the
// revocation store on every verification.
type TokenManager struct {
	secret     []byte
	ttl        time.Duration
	tokenStore domain.TokenStore
}

func NewTokenManager(secret string, ttl time.Duration, tokenStore domain.TokenStore) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, tokenStore: tokenStore}
}

// Issue signs a token for the user. Each token gets a unique jti so it can
// be revoked individually on logout.
func (m *TokenManager) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string and checks revocation.
func (m *TokenManager) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if m.tokenStore != nil && claims.ID != "" {
		revoked, err := m.tokenStore.IsRevoked(ctx, claims.ID)
		if err == nil && revoked {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

// Revoke blacklists the token's jti for its remaining lifetime.
func (m *TokenManager) Revoke(ctx context.Context, claims *Claims) error {
	if m.tokenStore == nil || claims.ID == "" {
		return nil
	}
	ttl := m.ttl
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return m.tokenStore.Revoke(ctx, claims.ID, ttl)
}

// Actor converts token claims into the domain actor.
func (c *Claims) Actor() models.Actor {
	return models.Actor{ID: c.UserID, Username: c.Username, Email: c.Email, Role: c.Role}
}
