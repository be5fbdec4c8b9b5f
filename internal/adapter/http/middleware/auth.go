package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fixr105/Seven-Render-sub004/internal/adapter/http/response"
	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

type contextKey string

const identityKey contextKey = "auth_identity"

// AuthMiddleware verifies bearer tokens and injects the caller identity
type AuthMiddleware struct {
	tokenService ports.TokenService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokenService ports.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// RequireAuth rejects the request unless it carries a valid bearer token.
// Verification failures fail closed; no identity ever reaches the handler
// without a verified role.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		identity, err := m.tokenService.Verify(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}
		// A role with no workflow capability never reaches a handler.
		if domain.CapabilityFor(identity.Role) == nil {
			response.Unauthorized(w, "Token carries an unknown role")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetIdentity retrieves the verified caller identity from the context.
// The second return is false when the request never passed RequireAuth.
func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// WithIdentity returns a context carrying the given identity, for tests and
// internal callers that bypass the HTTP layer.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
