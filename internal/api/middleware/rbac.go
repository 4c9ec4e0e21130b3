package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/policy"
)

// RBAC enforces the route-level role check. It must run after RequireSession.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	req := policy.Roles(allowedRoles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, _ := PrincipalFrom(c)
			if err := policy.Authorize(p, req).Err(); err != nil {
				return err
			}
			return next(c)
		}
	}
}
