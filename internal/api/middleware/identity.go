package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/privytune/backend/internal/api/metrics"
	"github.com/privytune/backend/internal/core/domain"
	"github.com/privytune/backend/internal/core/ports"
)

// TokenCookieName is the cookie the session token travels in when the client
// does not send an Authorization header.
const TokenCookieName = "jwt"

// Identity resolves the caller of each request from its session token and
// attaches a domain.Identity to the request context. It never rejects a
// request: a missing or unusable token leaves the request anonymous, and the
// route-level RequireAuthenticated/RequireRole decide what that means.
func Identity(tokens ports.TokenCodec, users ports.UserRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if _, ok := domain.IdentityFrom(req.Context()); ok {
				return next(c)
			}

			raw := extractToken(req)
			if raw == "" {
				metrics.IdentityResolutionsTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}

			subject, err := tokens.Validate(raw)
			if err != nil {
				metrics.IdentityResolutionsTotal.WithLabelValues("invalid_token").Inc()
				log.Debug().Err(err).Str("path", req.URL.Path).Msg("ignoring invalid session token")
				return next(c)
			}

			user, err := users.FindByEmail(req.Context(), subject)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.IdentityResolutionsTotal.WithLabelValues("unknown_subject").Inc()
				} else {
					metrics.IdentityResolutionsTotal.WithLabelValues("store_error").Inc()
					log.Error().Err(err).Str("path", req.URL.Path).Msg("identity lookup failed")
				}
				return next(c)
			}

			metrics.IdentityResolutionsTotal.WithLabelValues("authenticated").Inc()
			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), domain.NewIdentity(user))))
			return next(c)
		}
	}
}

// extractToken prefers "Authorization: Bearer <token>" and falls back to the
// session cookie when the header is absent or uses another scheme.
func extractToken(req *http.Request) string {
	if header := req.Header.Get(echo.HeaderAuthorization); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "bearer") {
			if token = strings.TrimSpace(token); token != "" {
				return token
			}
		}
	}

	if cookie, err := req.Cookie(TokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
