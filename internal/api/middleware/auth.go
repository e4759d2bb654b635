package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pratik-mahalle/trainhub/internal/auth"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/pkg/utils"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	// UserIDKey is the context key for the asserted user ID
	UserIDKey ContextKey = "userID"
	// RolesKey is the context key for the asserted platform roles
	RolesKey ContextKey = "roles"
)

// AuthMiddleware returns a middleware that validates identity assertions
func AuthMiddleware(jwtSecret, issuer string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
				return
			}

			claims, err := auth.ParseClaims(tokenStr, jwtSecret, issuer)
			if err != nil {
				utils.WriteError(w, errors.Unauthorized("Invalid or expired token"))
				return
			}

			AddLogField(w, "user_id", claims.UserID)

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims.UserID, claims.Roles)))
		})
	}
}

// RequireRole rejects requests whose identity lacks role
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !HasRole(r, role) {
				utils.WriteError(w, errors.Forbidden("Insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithIdentity stores an asserted identity in ctx
func WithIdentity(ctx context.Context, userID string, roles []string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, RolesKey, roles)
}

// GetUserID extracts the user ID from the request context
func GetUserID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// GetRoles extracts the platform roles from the request context
func GetRoles(r *http.Request) []string {
	roles, _ := r.Context().Value(RolesKey).([]string)
	return roles
}

// HasRole reports whether the request identity carries role
func HasRole(r *http.Request, role string) bool {
	for _, have := range GetRoles(r) {
		if have == role {
			return true
		}
	}
	return false
}

func tokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}
	if cookie, err := r.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}
