// Package reqid tags every request with a unique ID so log lines from one
// request can be correlated across the logger, the queue, and error reports.
package reqid

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

// Header carries the ID back to the client and on to upstream services.
const Header = "X-Request-ID"

type ctxKey struct{}

// FromCtx returns the request ID stored by Middleware, or "" when the
// request never passed through it.
func FromCtx(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Middleware assigns each request a 32-char hex ID, echoes it in the
// response header, and stores it in the request context. An ID already set
// by a front proxy is reused instead of replaced.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if id == "" {
				var b [16]byte
				_, _ = rand.Read(b[:])
				id = hex.EncodeToString(b[:])
			}
			w.Header().Set(Header, id)

			ctx := context.WithValue(r.Context(), ctxKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
