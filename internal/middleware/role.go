package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RoleSupervisor may delete and export tickets when the gate is enabled.
const RoleSupervisor = "SUPERVISOR"

// RequireRole rejects the request with 403 unless JWTAuth stored one of
// roles in the context.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
			}
			return next(c)
		}
	}
}
