package api

import (
	"context"
	"net/http"
	"strings"

	"siruang/internal/auth"
	"siruang/internal/models"
)

type contextKey string

const claimsKey contextKey = "claims"

// authenticate validates the bearer token and stashes the claims in the
// request context.
func (s *HTTPServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			writeError(w, http.StatusUnauthorized, "token tidak ditemukan")
			return
		}

		claims, err := s.tokens.Verify(r.Context(), strings.TrimSpace(tokenString))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "token tidak valid")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *HTTPServer) requireAdmin(next http.Handler) http.Handler {
	return s.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actorFrom(r).Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "anda tidak memiliki akses")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func claimsFrom(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return claims
}

func actorFrom(r *http.Request) models.Actor {
	if claims := claimsFrom(r); claims != nil {
		return claims.Actor()
	}
	return models.Actor{}
}
