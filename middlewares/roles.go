package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// จำกัดบทบาทที่อนุญาต เช่น RequireRole("admin") หรือ RequireRole("instructor","admin")
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roleAny := c.Get("role")
			role, _ := roleAny.(string)
			if _, ok := allowed[strings.ToLower(role)]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "FORBIDDEN", "message": "insufficient role"})
			}
			return next(c)
		}
	}
}
