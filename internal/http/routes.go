package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	middleware "repair-pool.com/repair-pool/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/tasks", h.ListTasks)
	e.GET("/tasks/:id", h.GetTask)
	e.GET("/ledger", h.ListLedger)

	identity := middleware.Identity()

	e.POST("/tasks", h.ProposeTask, identity)
	e.DELETE("/tasks/:id", h.DeleteTask, identity)
	e.POST("/tasks/:id/approvals", h.Approve, identity)
	e.POST("/tasks/:id/rejections", h.Reject, identity)
	e.POST("/tasks/:id/bids", h.PlaceBid, identity)
	e.POST("/tasks/:id/award", h.Award, identity)
	e.POST("/tasks/:id/verification", h.RequestVerification, identity)
	e.POST("/tasks/:id/verification/reject", h.RejectWork, identity)
	e.POST("/tasks/:id/verification/accept", h.AcceptWork, identity)
	e.POST("/tasks/:id/ratings", h.RateTask, identity)
	e.DELETE("/tasks/:id/ratings/:ratingID", h.DeleteRating, identity)
	e.DELETE("/ledger/:id", h.DeleteLedgerEntry, identity)
	e.POST("/scheduler/sweep", h.Sweep, identity)
}
