package http

import (
	"net/http"

	"lectio/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

const (
	// HeaderUserID carries the authenticated caller's id.
	HeaderUserID = "X-User-ID"

	callerKey = "caller_id"
)

// CallerIdentity rejects requests without a valid X-User-ID header and stores
// the parsed id for handlers.
func CallerIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderUserID)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing "+HeaderUserID+" header")
			}

			callerID, err := kernel.UUIDFromString(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid "+HeaderUserID+" header")
			}

			c.Set(callerKey, callerID)
			return next(c)
		}
	}
}

func callerID(c echo.Context) kernel.UUID {
	id, _ := c.Get(callerKey).(kernel.UUID)
	return id
}

func pathID(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	return id, nil
}
