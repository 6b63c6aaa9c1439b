package middleware

import (
	"crypto/rsa"
	"net/http"
)

// AdminAuthMiddleware validates a JWT and ensures it contains the "admin" role.
// It is intended for admin-only endpoints.
func AdminAuthMiddleware(pub *rsa.PublicKey) func(http.Handler) http.Handler {
	return authenticate(pub, RoleAdmin)
}
