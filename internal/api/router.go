package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/catalog-api/docs"
	"github.com/99minutos/catalog-api/internal/api/handler"
	"github.com/99minutos/catalog-api/internal/api/middleware"
	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

// RouterConfig holds the HTTP surface settings.
type RouterConfig struct {
	APIPrefix   string
	CORSOrigins []string
}

// Deps are the collaborators the routes are wired to. Idempotency may be nil.
type Deps struct {
	Auth        ports.AuthService
	Tokens      ports.TokenVerifier
	Products    ports.ProductService
	Idempotency ports.IdempotencyStore
	Health      *handler.HealthHandler
	Logger      zerolog.Logger

	// Nil values fall back to the prometheus default registry.
	MetricsRegisterer prometheus.Registerer
	MetricsGatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig, d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	registerer, gatherer := d.MetricsRegisterer, d.MetricsGatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, middleware.HeaderIdempotencyKey,
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}))

	// --- Operational routes (no auth) ---
	if d.Health != nil {
		e.GET("/health", d.Health.Liveness)
		e.GET("/health/ready", d.Health.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(strings.TrimRight(cfg.APIPrefix, "/"))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	credentials := middleware.ValidateCredentials()
	api.POST("/auth/register", middleware.Chain(authHandler.Register, credentials))
	api.POST("/auth/login", middleware.Chain(authHandler.Login, credentials))

	// --- Product routes ---
	lookup := middleware.ProductLookup(d.Products.Get)
	products := handler.NewProductHandler(d.Products, d.Idempotency, d.Logger)
	authn := middleware.Authenticate(d.Tokens, d.Logger)
	admin := middleware.RequireRole(domain.RoleAdmin)
	existing := middleware.RequireExistingProduct(lookup, d.Logger)

	api.POST("/products", middleware.Chain(products.Create,
		authn,
		middleware.ValidateProduct(middleware.CreatePayload),
		middleware.ReplayIdempotentCreate(d.Idempotency, lookup, d.Logger),
		middleware.RequireUniqueName(lookup, d.Logger),
	))
	api.GET("/products", middleware.Chain(products.List, authn))
	api.GET("/products/:name", middleware.Chain(products.Get, authn, existing))
	api.PUT("/products/:name", middleware.Chain(products.Update,
		authn, admin, middleware.ValidateProduct(middleware.UpdatePayload), existing,
	))
	api.DELETE("/products/:name", middleware.Chain(products.Delete, authn, admin, existing))

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
