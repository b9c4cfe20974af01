package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/inkwell/blog-api/docs"
	"github.com/inkwell/blog-api/internal/api/handler"
	"github.com/inkwell/blog-api/internal/api/middleware"
	"github.com/inkwell/blog-api/internal/core/ports"
	"github.com/inkwell/blog-api/internal/infrastructure/config"
)

// Deps carries everything the router wires into handlers. main builds the
// concrete services; tests pass in-memory ones.
type Deps struct {
	Auth           ports.AuthService
	Tokens         ports.TokenVerifier
	Posts          ports.PostService
	Health         map[string]handler.DependencyCheck
	RateLimitStore echomiddleware.RateLimiterStore
	HTTP           config.HTTPConfig
	Logger         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	// Request metrics go to a per-router registry; /metrics serves it next to
	// the domain counters in the default registry.
	httpMetrics := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "blog",
		Registerer: httpMetrics,
	}))
	// Inside the metrics middleware so errors are rendered before the status is read.
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.HTTP.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	if deps.HTTP.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(deps.HTTP.BodyLimit))
	}
	if deps.RateLimitStore != nil {
		e.Use(middleware.RateLimit(deps.RateLimitStore))
	}
	if deps.HTTP.RequestTimeout > 0 {
		e.Use(echomiddleware.ContextTimeoutWithConfig(echomiddleware.ContextTimeoutConfig{
			Timeout: deps.HTTP.RequestTimeout,
		}))
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	postHandler := handler.NewPostHandler(deps.Posts)
	healthHandler := handler.NewHealthHandler(deps.Health)
	requireAuth := middleware.Auth(deps.Tokens)

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// --- Post routes ---
	e.GET("/posts", postHandler.List)
	e.GET("/posts/:id", postHandler.Get)
	e.POST("/posts", postHandler.Create, requireAuth)
	e.PUT("/posts/:id", postHandler.Update, requireAuth)
	e.DELETE("/posts/:id", postHandler.Delete, requireAuth)

	// --- Operational routes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
		prometheus.Gatherers{prometheus.DefaultGatherer, httpMetrics},
		promhttp.HandlerOpts{},
	)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
