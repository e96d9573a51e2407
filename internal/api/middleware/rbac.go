package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/erp-platform/employee-service/internal/core/domain"
)

// Authenticated requires a principal on the request.
func Authenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := domain.PrincipalFrom(c.Request().Context()); !ok {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}

// RBAC enforces role-based access control. Anonymous callers get
// ErrUnauthenticated, callers without one of allowedRoles get ErrForbidden.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := domain.PrincipalFrom(c.Request().Context())
			if !ok {
				return domain.ErrUnauthenticated
			}
			if !p.HasAnyRole(allowedRoles...) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
