package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/retailcatalog/admin-console/internal/api/handler"
	"github.com/retailcatalog/admin-console/internal/api/middleware"
	"github.com/retailcatalog/admin-console/internal/core/listing"
	"github.com/retailcatalog/admin-console/internal/core/policy"
	"github.com/retailcatalog/admin-console/internal/core/ports"
	"github.com/retailcatalog/admin-console/internal/core/session"
)

const loginPath = "/login"

// Deps carries everything the router wires into handlers and middleware.
type Deps struct {
	Auth     ports.AuthService
	Sessions *session.Manager
	Tokens   middleware.TokenVerifier
	Screens  *listing.Registry
	Logger   zerolog.Logger

	// Readiness probes keyed by dependency name.
	Dependencies map[string]handler.Pinger

	CookieSecure bool
	SessionTTL   time.Duration

	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := handler.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "console",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Health probes and metrics (no session) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Dependencies)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness) // pings the session backend
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Session-scoped routes ---
	app := e.Group("", middleware.Session(middleware.SessionConfig{
		Manager:  d.Sessions,
		Verifier: d.Tokens,
		Auth:     d.Auth,
		Secure:   d.CookieSecure,
		MaxAge:   d.SessionTTL,
		Logger:   d.Logger,
		OnLogout: d.Screens.Drop,
	}))

	authHandler := handler.NewAuthHandler(d.Auth, d.Screens, d.Logger)
	dashboardHandler := handler.NewDashboardHandler(d.Screens, d.Logger)

	app.GET("/", dashboardHandler.Home)
	app.GET(loginPath, authHandler.ShowLogin)
	app.POST(loginPath, authHandler.Login)
	app.GET("/register", authHandler.ShowRegister)
	app.POST("/register", authHandler.Register)
	app.POST("/logout", authHandler.Logout)

	dash := app.Group("/dashboard", middleware.RequireAuth(loginPath))
	dash.GET("/:tab", dashboardHandler.Show, middleware.RBAC(policy.ActionView))
	dash.GET("/:tab/:id/edit", dashboardHandler.Edit, middleware.RBAC(policy.ActionEdit))
	dash.POST("/:tab", dashboardHandler.Create, middleware.RBAC(policy.ActionCreate))
	dash.POST("/:tab/:id", dashboardHandler.Update, middleware.RBAC(policy.ActionEdit))
	dash.POST("/:tab/:id/delete", dashboardHandler.Delete, middleware.RBAC(policy.ActionDelete))

	return e, nil
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
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
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
