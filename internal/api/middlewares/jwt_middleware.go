package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/markdave123-py/joba/internal/models"
)

type contextKey string

const userKey contextKey = "user"

// UserResolver turns a bearer token into the user it belongs to. Tokens whose
// subject no longer exists must fail resolution.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (models.User, error)
}

// Auth validates the bearer token, resolves its user and attaches the user to
// the request context. Missing, malformed and expired tokens and deleted
// users all get the same 401 body.
func Auth(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}

			user, err := users.CurrentUser(r.Context(), strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionUser returns the authenticated user attached by Auth.
func SessionUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok && user.ID != ""
}

// UserID returns the authenticated user's ID.
func UserID(ctx context.Context) (string, bool) {
	user, ok := SessionUser(ctx)
	return user.ID, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"detail": "could not validate credentials"}`))
}
