// internal/session/middleware.go

package session

import (
	"context"
	"net/http"
	"strings"

	"github.com/sweepstouch/registration-gateway/internal/common/utils"
)

type contextKey string

const (
	claimsKey contextKey = "sessionClaims"
)

// Middleware validates gateway tokens and attaches claims to the request.
type Middleware struct {
	service *Service
}

// NewMiddleware creates the auth middleware.
func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// Authenticate protects routes that require a logged-in operator.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			utils.ErrorResponse(w, "Missing or invalid authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := ValidateToken(token, m.service.JWTSecret())
		if err != nil {
			utils.ErrorResponse(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		if !AllowedRoles[claims.Role] {
			utils.ErrorResponse(w, "This account cannot use the registration app", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// OptionalAuthenticate attaches claims when a valid token is present but lets
// the request through either way. Public QR registration uses this.
func (m *Middleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token != "" {
			if claims, err := ValidateToken(token, m.service.JWTSecret()); err == nil && AllowedRoles[claims.Role] {
				r = r.WithContext(ContextWithClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole narrows an authenticated route to one role.
func (m *Middleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if claims.Role != role {
				utils.ErrorResponse(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// ContextWithClaims attaches validated claims to a context. Exposed for
// callers that drive session-scoped services outside the HTTP middleware.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the validated claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user ID, empty when anonymous.
func UserIDFromContext(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return claims.UserID, true
}

// RoleFromContext returns the authenticated role, empty when anonymous.
func RoleFromContext(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return claims.Role, true
}
