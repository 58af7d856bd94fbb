package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission identity.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			if !id.Can(permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, id.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission passes when the caller holds at least one of permissions.
func RequireAnyPermission(permissions ...identity.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			for _, p := range permissions {
				if id.Can(p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, fmt.Sprintf("Insufficient permissions for role '%s'", id.Role))
		})
	}
}
