// Package policy is the single authorization checkpoint. Every privileged
// route goes through RequireAdmin; handlers never re-check roles themselves,
// so there is exactly one enforcement point to audit.
package policy

import (
	"net/http"

	"github.com/ashen-w/furnistore/internal/auth"
	"github.com/ashen-w/furnistore/internal/httpx"
	"github.com/ashen-w/furnistore/internal/models"
)

// IsAdmin reports whether the identity is an authenticated admin.
// A nil identity (anonymous request) is never an admin.
func IsAdmin(claims *auth.Claims) bool {
	if claims == nil {
		return false
	}
	return claims.Role == models.RoleAdmin
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.ClaimsFromContext(r.Context()) == nil {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous requests with 401 and authenticated
// non-admins with 403, before the handler performs any side effect.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := auth.ClaimsFromContext(r.Context())
		if claims == nil {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		if !IsAdmin(claims) {
			httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
