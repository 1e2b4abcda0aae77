package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"repair-pool.com/repair-pool/internal/access"
	"repair-pool.com/repair-pool/internal/constants"
	dto "repair-pool.com/repair-pool/internal/data_models"
	apperrors "repair-pool.com/repair-pool/internal/errors"
	middleware "repair-pool.com/repair-pool/internal/http/middlewares"
	"repair-pool.com/repair-pool/internal/http/validators"
	model "repair-pool.com/repair-pool/internal/models"
	"repair-pool.com/repair-pool/internal/services"
)

type Handler struct {
	workflow  *services.WorkflowService
	scheduler *services.AwardScheduler
}

func NewHandler(workflow *services.WorkflowService, scheduler *services.AwardScheduler) *Handler {
	return &Handler{
		workflow:  workflow,
		scheduler: scheduler,
	}
}

func (h *Handler) ProposeTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.workflow.ProposeTask(c.Request().Context(), middleware.ResidentID(c), services.ProposeTaskInput{
		Title:         req.Title,
		Category:      constants.Category(req.Category),
		Scope:         constants.Scope(req.Scope),
		Location:      req.Location,
		Details:       req.Details,
		PhotoRef:      req.PhotoRef,
		StartingPrice: req.StartingPrice,
		WarrantyDays:  req.WarrantyDays,
	})
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.workflow.GetTask(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	status := constants.TaskStatus(c.QueryParam("status"))

	tasks, err := h.workflow.ListTasks(c.Request().Context(), status)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, dto.TaskListResponse{
		Count: len(tasks),
		Tasks: tasks,
	})
}

func (h *Handler) DeleteTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.workflow.DeleteTask(c.Request().Context(), id, middleware.ResidentID(c)); err != nil {
		return fail(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Approve(c echo.Context) error {
	return h.transition(c, h.workflow.Approve)
}

func (h *Handler) Reject(c echo.Context) error {
	return h.transition(c, h.workflow.Reject)
}

func (h *Handler) PlaceBid(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req dto.PlaceBidRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidatePlaceBidRequest(&req); err != nil {
		return err
	}

	task, err := h.workflow.PlaceBid(c.Request().Context(), id, middleware.ResidentID(c), req.Amount, req.Note)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) Award(c echo.Context) error {
	return h.transition(c, h.workflow.AwardLowest)
}

func (h *Handler) RequestVerification(c echo.Context) error {
	return h.transition(c, h.workflow.RequestVerification)
}

func (h *Handler) RejectWork(c echo.Context) error {
	return h.transition(c, h.workflow.RejectWork)
}

func (h *Handler) AcceptWork(c echo.Context) error {
	return h.transition(c, h.workflow.AcceptWork)
}

func (h *Handler) RateTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req dto.RateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateRateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.workflow.RateTask(c.Request().Context(), id, middleware.ResidentID(c), req.Stars, req.Comment)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) DeleteRating(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	ratingID := c.Param("ratingID")
	if ratingID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "rating id is required")
	}

	task, err := h.workflow.DeleteRating(c.Request().Context(), id, ratingID, middleware.ResidentID(c))
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ListLedger(c echo.Context) error {
	entries, err := h.workflow.ListLedger(c.Request().Context())
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, dto.LedgerResponse{
		Count:   len(entries),
		Entries: entries,
	})
}

func (h *Handler) DeleteLedgerEntry(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "ledger entry id is required")
	}

	if err := h.workflow.DeleteLedgerEntry(c.Request().Context(), id, middleware.ResidentID(c)); err != nil {
		return fail(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Sweep runs one auto-award pass on demand, for operators driving awards
// from an external cron.
func (h *Handler) Sweep(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.workflow.Authorize(ctx, middleware.ResidentID(c), access.Administer); err != nil {
		return fail(err)
	}

	awarded, err := h.scheduler.Sweep(ctx)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, dto.SweepResponse{Awarded: awarded})
}

func (h *Handler) transition(c echo.Context, op func(ctx context.Context, taskID, actorID string) (*model.Task, error)) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := op(c.Request().Context(), id, middleware.ResidentID(c))
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, task)
}

func taskID(c echo.Context) (string, error) {
	id := c.Param("id")
	if id == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrTaskIDRequired.Message)
	}
	return id, nil
}

func fail(err error) error {
	return echo.NewHTTPError(apperrors.StatusCode(err), err.Error())
}
