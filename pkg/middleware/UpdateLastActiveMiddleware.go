package middleware

import (
	"net/http"

	"github.com/Bekarys2104/Task_Planner/internal/services"
)

// UpdateLastActiveMiddleware stamps the authenticated user's last
// activity time on every request passing through it. Failures are
// ignored so a slow write never blocks the request itself.
func UpdateLastActiveMiddleware(userService *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r.Context())
			if claims != nil {
				_ = userService.UpdateLastActive(r.Context(), claims.UserID)
			}
			next.ServeHTTP(w, r)
		})
	}
}
