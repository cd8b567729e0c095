package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/worksy/marketplace/docs"
	"github.com/worksy/marketplace/internal/api/handler"
	"github.com/worksy/marketplace/internal/api/middleware"
	"github.com/worksy/marketplace/internal/core/domain"
	"github.com/worksy/marketplace/internal/core/ports"
	"github.com/worksy/marketplace/internal/core/service"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth         ports.AuthService
	Offers       ports.OfferService
	Applications ports.ApplicationService
	Posts        ports.PostService
	Checks       []handler.DependencyCheck

	Logger zerolog.Logger
	// AuthLimiter throttles the credential endpoints. Nil disables it.
	AuthLimiter *middleware.RateLimiter
	CORSOrigins []string
	// Metrics mounts echoprometheus and /metrics. Tests leave it off since
	// the collectors register globally.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	if len(d.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: d.CORSOrigins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}
	if d.Metrics {
		e.Use(echoprometheus.NewMiddleware("worksy"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Health probes and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Checks...)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireAuth := middleware.Auth(d.Auth)
	var throttle echo.MiddlewareFunc = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if d.AuthLimiter != nil {
		throttle = d.AuthLimiter.Middleware()
	}

	api := e.Group("/api")

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login, throttle)
	auth.POST("/forgot", authHandler.Forgot, throttle)
	auth.POST("/reset", authHandler.Reset, throttle)
	auth.GET("/me", authHandler.Me, requireAuth)
	auth.POST("/logout", authHandler.Logout, requireAuth)

	// --- Offers and applications ---
	offerHandler := handler.NewOfferHandler(d.Offers)
	applicationHandler := handler.NewApplicationHandler(d.Applications)
	api.GET("/offers", offerHandler.List)
	api.GET("/offers/:id", offerHandler.Get)
	api.POST("/offers", offerHandler.Create, requireAuth, middleware.RBAC(service.OfferPublishers...))
	api.GET("/offers/:id/applications", applicationHandler.ForOffer, requireAuth, middleware.RBAC(domain.RoleEntreprise, domain.RoleAdmin))
	api.POST("/applications", applicationHandler.Apply, requireAuth, middleware.RBAC(service.Applicants...))
	api.GET("/applications/mine", applicationHandler.Mine, requireAuth)

	// --- Posts ---
	postHandler := handler.NewPostHandler(d.Posts)
	api.GET("/posts", postHandler.List)
	api.GET("/posts/:id", postHandler.Get)
	api.POST("/posts", postHandler.Create, requireAuth)
	api.PUT("/posts/:id", postHandler.Update, requireAuth)
	api.DELETE("/posts/:id", postHandler.Delete, requireAuth)

	return e
}

// ParseOrigins splits a comma separated CORS origin list.
func ParseOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
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
