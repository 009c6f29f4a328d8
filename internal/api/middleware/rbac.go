package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/djabaro/stock-console/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Guard. A
// refused request ends with domain.ErrForbidden for the error handler.
func RBAC(allowed domain.RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, _ := CurrentSession(c)
			role := s.Role()
			if role == nil || !allowed.Has(*role) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
