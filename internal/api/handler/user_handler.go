package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// UserHandler exposes the authenticated user's own profile.
type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me handles GET /api/v1/users/me.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, id.User)
}
