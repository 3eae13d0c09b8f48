package http

import (
	"net/http"

	"escrow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"

	actorKey = "actor"
)

// requireActor reads the caller identity the gateway attached after
// authentication. Requests without one never reach a handler, and the system
// role is reserved for the engine's own timers and consumers.
func requireActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := kernel.UUIDFromString(c.Request().Header.Get(HeaderActorID))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, Error{Code: http.StatusUnauthorized, Message: "Missing or invalid " + HeaderActorID})
		}
		role, err := kernel.ParseRole(c.Request().Header.Get(HeaderActorRole))
		if err != nil || role == kernel.RoleSystem {
			return c.JSON(http.StatusUnauthorized, Error{Code: http.StatusUnauthorized, Message: "Missing or invalid " + HeaderActorRole})
		}
		actor, err := kernel.NewActor(id, role)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, Error{Code: http.StatusUnauthorized, Message: err.Error()})
		}
		c.Set(actorKey, actor)
		return next(c)
	}
}

func actorFrom(c echo.Context) kernel.Actor {
	actor, _ := c.Get(actorKey).(kernel.Actor)
	return actor
}
