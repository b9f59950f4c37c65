package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtutil "github.com/Bekarys2104/Task_Planner/pkg/jwt"
	"github.com/Bekarys2104/Task_Planner/pkg/logger"
)

type contextKey string

// UserContextKey is the request context key under which the verified
// token claims are stored.
const UserContextKey contextKey = "user"

// AuthMiddleware verifies the Bearer token on every request and stores
// the claims in the request context.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Log.Warn("Missing Authorization header")
				http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				logger.Log.Warn("Malformed Authorization header")
				http.Error(w, "Unauthorized: malformed token", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := jwtutil.ValidateToken(tokenString, jwtSecret)
			if err != nil {
				logger.Log.WithError(err).Warn("Token validation failed")
				http.Error(w, "Unauthorized: invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the token claims stored by AuthMiddleware.
// Returns nil if the request was not authenticated.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, ok := ctx.Value(UserContextKey).(*jwtutil.Claims)
	if !ok {
		return nil
	}
	return claims
}

// RequireRole restricts a route to users carrying the given role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r.Context())
			if claims == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if claims.Role != role {
				logger.Log.WithField("userID", claims.UserID).Warnf("Access denied: role %q required", role)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
