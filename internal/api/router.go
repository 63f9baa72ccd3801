package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/campusdesk/accounts/docs"
	"github.com/campusdesk/accounts/internal/api/handler"
	"github.com/campusdesk/accounts/internal/api/middleware"
	"github.com/campusdesk/accounts/internal/core/ports"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Auth     ports.AuthService
	Account  ports.AccountService
	Admin    ports.AdminService
	Sessions ports.SessionManager
	// Readiness checks keyed by dependency name, e.g. "mongodb".
	Readiness map[string]handler.DependencyCheck
	// Metrics defaults to the global Prometheus registry.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "accounts",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	accountHandler := handler.NewAccountHandler(deps.Account)
	adminHandler := handler.NewAdminHandler(deps.Admin)
	requireSession := middleware.Auth(deps.Sessions)

	api := e.Group("/api")

	// --- Anonymous routes ---
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/password-reset", accountHandler.RequestPasswordReset)
	api.POST("/password-reset/confirm", accountHandler.ConfirmPasswordReset)

	// --- Authenticated routes ---
	api.POST("/logout", authHandler.Logout, requireSession)
	api.GET("/dashboard", accountHandler.Dashboard, requireSession)
	api.GET("/me", accountHandler.Me, requireSession)
	api.PATCH("/me", accountHandler.UpdateMe, requireSession)
	api.POST("/me/password", accountHandler.ChangePassword, requireSession)

	// --- Admin routes ---
	admin := api.Group("/admin", requireSession, middleware.RequireAdmin())
	admin.GET("/overview", adminHandler.Overview)
	admin.GET("/identities", adminHandler.Search)
	admin.POST("/identities", adminHandler.Create)
	admin.GET("/identities/:id", adminHandler.Get)
	admin.PUT("/identities/:id", adminHandler.Update)
	admin.DELETE("/identities/:id", adminHandler.Delete)
	admin.GET("/approvals/:queue", adminHandler.ApprovalQueue)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Readiness, log).Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
