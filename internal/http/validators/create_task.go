package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"repair-pool.com/repair-pool/internal/constants"
	dto "repair-pool.com/repair-pool/internal/data_models"
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if strings.TrimSpace(r.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if !constants.Category(r.Category).Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown category")
	}
	if !constants.Scope(r.Scope).Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "scope must be shared or private-unit")
	}
	if r.StartingPrice <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "starting_price must be positive")
	}
	if r.WarrantyDays < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "warranty_days cannot be negative")
	}
	return nil
}
