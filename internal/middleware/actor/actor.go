// Package actor resolves the requesting user from the X-Actor-ID header.
// Session handling lives in front of this service; the header is the seam it
// injects the authenticated user through.
package actor

import (
	"context"
	"net/http"
	"strconv"

	"printdesk/internal/storage"
)

type ctxKey struct{}

type UserProvider interface {
	GetUserByID(ctx context.Context, id int64) (storage.User, error)
}

// Resolve loads the actor for routes that need one. Requests without a valid
// actor are rejected before any handler runs.
func Resolve(users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idStr := r.Header.Get("X-Actor-ID")
			if idStr == "" {
				http.Error(w, "missing X-Actor-ID header", http.StatusForbidden)
				return
			}

			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				http.Error(w, "invalid X-Actor-ID header", http.StatusForbidden)
				return
			}

			user, err := users.GetUserByID(r.Context(), id)
			if err != nil {
				http.Error(w, "unknown actor", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser puts a resolved actor on the context.
func WithUser(ctx context.Context, user storage.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// FromContext returns the resolved actor. The bool is false on routes that
// skipped Resolve.
func FromContext(ctx context.Context) (storage.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(storage.User)
	return user, ok
}
