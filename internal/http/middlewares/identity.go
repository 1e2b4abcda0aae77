package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "repair-pool.com/repair-pool/internal/errors"
)

const (
	ResidentHeader = "X-Resident-ID"
	residentKey    = "resident_id"
)

// Identity requires the caller's resident id. Roles are resolved later by
// the workflow against the resident directory.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(ResidentHeader))
			if id == "" {
				return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrResidentIDRequired.Message)
			}
			c.Set(residentKey, id)
			return next(c)
		}
	}
}

func ResidentID(c echo.Context) string {
	id, _ := c.Get(residentKey).(string)
	return id
}
