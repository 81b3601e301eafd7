package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/backend-boilerplate/internal/api/middleware"
	"github.com/99minutos/backend-boilerplate/internal/core/domain"
)

// ctxActor returns the caller identity injected by the Actor middleware.
// Anonymous requests yield "", which the audit layer records as unknown.
func ctxActor(c echo.Context) string {
	actor, _ := c.Get(middleware.ActorKey).(string)
	return actor
}

// ctxVisibility reads the visibility query parameter (live, all, deleted).
func ctxVisibility(c echo.Context) domain.Visibility {
	return domain.ParseVisibility(c.QueryParam("visibility"))
}
