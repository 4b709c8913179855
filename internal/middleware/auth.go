package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"mindlog/internal/models"
	"mindlog/internal/service"
)

type contextKey string

// userContextKey carries the authenticated account through the request context
const userContextKey contextKey = "user"

// TokenValidator is implemented by the service's token validation
type TokenValidator interface {
	ValidateToken(token string) (*models.User, error)
}

// Auth validates the bearer token on every request and injects the resolved
// account into the request context. Requests without a valid, unexpired token
// whose subject resolves to an existing account are rejected with 401.
func Auth(validator TokenValidator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			user, err := validator.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				switch err {
				case service.ErrTokenExpired:
					http.Error(w, service.ErrTokenExpired.Error(), http.StatusUnauthorized)
				default:
					http.Error(w, "could not validate credentials", http.StatusUnauthorized)
				}
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom extracts the authenticated account from a request context
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}
