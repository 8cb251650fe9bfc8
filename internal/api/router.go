package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/privytune/backend/internal/api/handler"
	"github.com/privytune/backend/internal/api/middleware"
	"github.com/privytune/backend/internal/core/domain"
	"github.com/privytune/backend/internal/core/ports"
)

// Deps carries everything the router needs. Stores and clients are built in
// cmd/server and passed in as ports so tests can substitute them.
type Deps struct {
	Log zerolog.Logger

	Tokens    ports.TokenCodec
	Users     ports.UserRepository
	Auth      ports.AuthService
	Models    ports.ModelService
	Downloads ports.DownloadService

	Dispatcher      handler.DownloadDispatcher
	ReadinessChecks map[string]handler.DependencyCheck

	// CORSOrigins are the browser origins allowed to call the API with
	// credentials. Empty disables CORS handling.
	CORSOrigins       []string
	// AuthLimiter throttles the credential endpoints; nil disables it.
	AuthLimiter       *middleware.RateLimiter
	// MetricsRegisterer receives the HTTP metrics. Defaults to the global
	// Prometheus registerer.
	MetricsRegisterer prometheus.Registerer
	CookieSecure      bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	// Client-supplied X-Forwarded-For must not pick the rate-limit bucket.
	e.IPExtractor = echo.ExtractIPDirect()

	registerer := d.MetricsRegisterer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.SecurityHeaders())
	if len(d.CORSOrigins) > 0 {
		e.Use(middleware.CORS(d.CORSOrigins))
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
	}))
	e.Use(middleware.Identity(d.Tokens, d.Users, d.Log))

	// --- Ops (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.ReadinessChecks)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth, d.CookieSecure)
	auth := v1.Group("/auth")
	credentials := []echo.MiddlewareFunc{}
	if d.AuthLimiter != nil {
		credentials = append(credentials, d.AuthLimiter.Middleware())
	}
	auth.POST("/register", authHandler.Register, credentials...)
	auth.POST("/authenticate", authHandler.Authenticate, credentials...)
	auth.POST("/logout", authHandler.Logout)

	// --- Model catalogue (public) ---
	modelHandler := handler.NewModelHandler(d.Models)
	v1.GET("/models", modelHandler.List)
	v1.GET("/models/:modelId", modelHandler.Manifest)

	// --- Per-user routes ---
	requireUser := middleware.RequireRole(domain.RoleUser)

	downloadHandler := handler.NewDownloadHandler(d.Downloads, d.Dispatcher)
	v1.POST("/models/:modelId/downloads", downloadHandler.Report, requireUser)
	v1.GET("/models/:modelId/downloads", downloadHandler.List, requireUser)

	userHandler := handler.NewUserHandler()
	v1.GET("/users/me", userHandler.Me, requireUser)

	return e
}
