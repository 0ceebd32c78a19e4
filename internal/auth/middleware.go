package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rgoyals/bahikhata/internal/user"
)

type contextKey struct{}

var userKey contextKey

// UserFromContext returns the authenticated user stored by Middleware.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userKey).(*user.User)
	return u, ok
}

// Middleware requires a valid bearer token and stores the resolved user in
// the request context.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, ErrUnauthorized.Error(), http.StatusUnauthorized)

			return
		}

		u, err := s.VerifyToken(r.Context(), raw)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, ErrUnauthorized.Error(), http.StatusUnauthorized)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}
