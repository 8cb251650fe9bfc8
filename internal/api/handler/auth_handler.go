package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/privytune/backend/internal/api/metrics"
	"github.com/privytune/backend/internal/api/middleware"
	"github.com/privytune/backend/internal/core/domain"
	"github.com/privytune/backend/internal/core/ports"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	authService  ports.AuthService
	cookieSecure bool
}

func NewAuthHandler(authService ports.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieSecure: cookieSecure}
}

// Register creates a new user account and starts a session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid_input").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid_input").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	user, token, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
			return c.JSON(http.StatusConflict, errorResponse{Error: "user already exists"})
		case errors.Is(err, domain.ErrInvalidInput):
			metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid_input").Inc()
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	return h.startSession(c, user, token)
}

// Authenticate checks credentials and starts a session.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authenticateRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/auth/authenticate [post]
func (h *AuthHandler) Authenticate(c echo.Context) error {
	var req authenticateRequest
	if err := c.Bind(&req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("authenticate", "invalid_input").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	user, token, err := h.authService.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthAttemptsTotal.WithLabelValues("authenticate", "invalid_credentials").Inc()
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		}
		metrics.AuthAttemptsTotal.WithLabelValues("authenticate", "error").Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("authenticate", "success").Inc()
	return h.startSession(c, user, token)
}

// Logout discards the session cookie. Tokens are not tracked server side, so
// a copied token stays valid until it expires.
//
// @Summary      Log out
// @Tags         auth
// @Success      204
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	// MaxAge < 0 is rendered as "Max-Age=0".
	c.SetCookie(h.sessionCookie("", -1))
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) startSession(c echo.Context, user *domain.User, token string) error {
	c.SetCookie(h.sessionCookie(token, int(h.authService.TokenTTL().Seconds())))
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}
