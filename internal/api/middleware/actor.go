package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	// HeaderActorID carries the identity of the caller performing a mutation.
	HeaderActorID = "X-Actor-ID"
	// ActorKey is the echo context key holding the trimmed actor id.
	ActorKey = "actor"

	maxActorLength = 128
)

// Actor reads X-Actor-ID and injects it into the context. A missing header
// is allowed and leaves the actor empty.
func Actor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := strings.TrimSpace(c.Request().Header.Get(HeaderActorID))
			if len(actor) > maxActorLength {
				return echo.NewHTTPError(http.StatusBadRequest, "actor id too long")
			}
			c.Set(ActorKey, actor)
			return next(c)
		}
	}
}

// RequireActor rejects requests that reach it without an actor. It guards
// irreversible operations that must always be attributable.
func RequireActor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, _ := c.Get(ActorKey).(string)
			if actor == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderActorID + " header"})
			}
			return next(c)
		}
	}
}
