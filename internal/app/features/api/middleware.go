// internal/app/features/api/middleware.go
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/alumhub/alumhub/internal/app/system/tokens"
)

type claimsKey struct{}

// requireToken verifies the bearer token and stashes its claims in the
// request context.
func (h *Handler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get("Authorization"))
		const prefix = "Bearer "
		if !strings.HasPrefix(raw, prefix) {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := h.Tokens.Verify(strings.TrimSpace(raw[len(prefix):]))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFrom(r *http.Request) (*tokens.Claims, bool) {
	c, ok := r.Context().Value(claimsKey{}).(*tokens.Claims)
	return c, ok
}
