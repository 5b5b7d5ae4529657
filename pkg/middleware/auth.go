package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/sweetshop/pkg/auth"
	"github.com/shashiranjanraj/sweetshop/pkg/response"
)

// SubjectStore answers whether a token subject still exists. Tokens are
// stateless, so a deleted account must be rejected here rather than by a
// revocation list.
type SubjectStore interface {
	Exists(userID uint) bool
}

// claimsKey is the unexported context key for the authenticated claims.
type claimsKey struct{}

// ClaimsFromCtx returns the claims stored by Authenticate.
func ClaimsFromCtx(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// UserIDFromCtx returns the authenticated user's ID, or false when the
// request is unauthenticated.
func UserIDFromCtx(ctx context.Context) (uint, bool) {
	c, ok := ClaimsFromCtx(ctx)
	if !ok {
		return 0, false
	}
	return c.UserID, true
}

// Authenticate is the tier-1 gate: it validates the bearer token, checks the
// subject still exists in the store, and places the claims in the request
// context. Failures are 401 with no distinction between the causes.
func Authenticate(subjects SubjectStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Unauthorized(w)
				return
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				response.Unauthorized(w)
				return
			}

			if subjects != nil && !subjects.Exists(claims.UserID) {
				response.Unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin is the tier-2 gate: it must be chained after Authenticate and
// rejects non-admin identities with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromCtx(r.Context())
		if !ok {
			response.Unauthorized(w)
			return
		}
		if !claims.IsAdmin {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
