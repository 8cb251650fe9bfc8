package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/privytune/backend/internal/core/domain"
)

// currentIdentity returns the identity attached by the identity middleware.
// Routes behind RequireRole always have one; the check guards against a
// handler being mounted without that middleware.
func currentIdentity(c echo.Context) (*domain.Identity, error) {
	id, ok := domain.IdentityFrom(c.Request().Context())
	if !ok || id.User == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}
