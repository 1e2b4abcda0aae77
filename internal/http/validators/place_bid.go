package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "repair-pool.com/repair-pool/internal/data_models"
)

func ValidatePlaceBidRequest(r *dto.PlaceBidRequest) error {
	if r.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be positive")
	}
	return nil
}
