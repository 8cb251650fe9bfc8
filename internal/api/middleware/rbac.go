package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/privytune/backend/internal/core/domain"
)

// RequireAuthenticated rejects anonymous requests with 401.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := domain.IdentityFrom(c.Request().Context()); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireRole enforces role-based access control. Anonymous requests get 401;
// authenticated callers holding none of allowedRoles get 403.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := domain.IdentityFrom(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !id.HasAnyRole(allowedRoles...) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
