// Package middleware provides the bearer-token gate protecting every
// identity-scoped route.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mkhalid/tasklist/internal/api"
	"github.com/mkhalid/tasklist/internal/apperr"
	"github.com/mkhalid/tasklist/internal/models"
)

// IdentityResolver maps a bearer token to an authenticated identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.Identity, error)
}

type contextKey struct{}

var identityKey contextKey

// ErrUnauthenticated is the uniform failure for requests without a usable
// bearer token. Its message matches the token service's verification
// failure, so a missing header and a bad token are indistinguishable.
var ErrUnauthenticated = apperr.New(apperr.KindUnauthorized, "Invalid or expired token")

// RequireAuth validates the Authorization header and injects the resolved
// identity into the request context. Failure short-circuits before any
// downstream handler runs.
func RequireAuth(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				api.WriteError(w, ErrUnauthenticated)
				return
			}

			identity, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				api.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the identity injected by RequireAuth.
func IdentityFrom(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*models.Identity)
	return identity, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
