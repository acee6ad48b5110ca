package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kurimacye/marketplace/internal/models"
)

// RequireRole gates a route group to the given roles. It assumes the
// JWT middleware already ran and set role into the context.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			return next(c)
		}
	}
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireRole(models.RoleAdmin)(next)
}
