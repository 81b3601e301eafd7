package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/99minutos/backend-boilerplate/internal/api/handler"
	"github.com/99minutos/backend-boilerplate/internal/api/middleware"
	"github.com/99minutos/backend-boilerplate/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Users  ports.UserService
	Checks []handler.DependencyCheck
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(deps.Logger))
	e.Use(middleware.Metrics())

	// --- Health probes and metrics ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Users ---
	users := handler.NewUserHandler(deps.Users)
	v1 := e.Group("/v1", middleware.Actor())

	v1.POST("/users", users.Create)
	v1.POST("/users/batch", users.CreateBatch)
	v1.GET("/users", users.List)
	v1.GET("/users/stats", users.Stats)
	v1.PATCH("/users/status", users.SetStatus)
	v1.GET("/users/:id", users.Get)
	v1.PATCH("/users/:id", users.Update)
	v1.DELETE("/users/:id", users.Delete)
	v1.POST("/users/:id/restore", users.Restore)
	v1.DELETE("/users/:id/force", users.ForceDelete, middleware.RequireActor())

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
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
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
