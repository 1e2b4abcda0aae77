package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "repair-pool.com/repair-pool/internal/data_models"
)

func ValidateRateTaskRequest(r *dto.RateTaskRequest) error {
	if r.Stars < 1 || r.Stars > 5 {
		return echo.NewHTTPError(http.StatusBadRequest, "stars must be between 1 and 5")
	}
	return nil
}
