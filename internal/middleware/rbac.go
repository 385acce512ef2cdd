package middleware

import (
	"net/http"
)

// RBACMiddleware gates routes by the role carried in the validated token
type RBACMiddleware struct{}

// NewRBACMiddleware creates a new RBAC middleware
func NewRBACMiddleware() *RBACMiddleware {
	return &RBACMiddleware{}
}

// RequireRole allows only callers holding the given role
func (m *RBACMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return m.RequireAnyRole(role)
}

// RequireAnyRole allows callers holding any of the given roles
func (m *RBACMiddleware) RequireAnyRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetUserID(r); !ok {
				respondWithError(w, http.StatusUnauthorized, "User not authenticated")
				return
			}

			userRole, ok := GetUserRole(r)
			if !ok {
				respondWithError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			for _, role := range roles {
				if userRole == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			respondWithError(w, http.StatusForbidden, "Insufficient permissions")
		})
	}
}
