package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"xpense/internal/core"
)

type contextKey string

const userContextKey contextKey = "user"

// requireAuth resolves the Bearer token to a user and stores it in the
// request context. Missing or invalid tokens get the 401 envelope.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, r, fmt.Errorf("%w: missing bearer token", core.ErrUnauthorized))
			return
		}

		user, err := s.auth.CurrentUser(r.Context(), strings.TrimSpace(token))
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// userFrom returns the authenticated user placed by requireAuth.
func userFrom(ctx context.Context) *core.User {
	user, _ := ctx.Value(userContextKey).(*core.User)
	return user
}
