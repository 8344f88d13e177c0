package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"taskdesk.com/taskdesk/internal/constants"
	dto "taskdesk.com/taskdesk/internal/data_models"
	apperrors "taskdesk.com/taskdesk/internal/errors"
	middleware "taskdesk.com/taskdesk/internal/http/middlewares"
	"taskdesk.com/taskdesk/internal/http/validators"
	repository "taskdesk.com/taskdesk/internal/repositories"
	"taskdesk.com/taskdesk/internal/services"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerIfMatchVersion = "If-Match-Version"
)

type Handler struct {
	taskService *services.TaskService
}

func NewHandler(taskService *services.TaskService) *Handler {
	return &Handler{
		taskService: taskService,
	}
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	result, err := h.taskService.CreateTask(
		c.Request().Context(),
		tenantID(c),
		c.Param("workspaceId"),
		req.Title,
		constants.TaskPriority(req.Priority),
		c.Request().Header.Get(headerIdempotencyKey),
	)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) AssignTask(c echo.Context) error {
	var req dto.AssignTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateAssignTaskRequest(&req); err != nil {
		return err
	}

	version, err := expectedVersion(c)
	if err != nil {
		return err
	}

	result, err := h.taskService.AssignTask(
		c.Request().Context(),
		c.Param("workspaceId"),
		c.Param("taskId"),
		req.AssigneeID,
		role(c),
		version,
	)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *Handler) TransitionTask(c echo.Context) error {
	var req dto.TransitionTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateTransitionTaskRequest(&req); err != nil {
		return err
	}

	version, err := expectedVersion(c)
	if err != nil {
		return err
	}

	result, err := h.taskService.TransitionTask(
		c.Request().Context(),
		c.Param("workspaceId"),
		c.Param("taskId"),
		constants.TaskState(req.ToState),
		role(c),
		version,
	)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *Handler) GetTask(c echo.Context) error {
	result, err := h.taskService.GetTask(
		c.Request().Context(),
		c.Param("workspaceId"),
		c.Param("taskId"),
	)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *Handler) ListTasks(c echo.Context) error {
	limit, err := limitParam(c)
	if err != nil {
		return err
	}

	state := c.QueryParam("state")
	if state != "" && !constants.ValidState(constants.TaskState(state)) {
		return echo.NewHTTPError(http.StatusBadRequest, "state must be one of: NEW, IN_PROGRESS, DONE, CANCELLED")
	}

	result, err := h.taskService.ListTasks(
		c.Request().Context(),
		c.Param("workspaceId"),
		repository.TaskFilter{
			State:      constants.TaskState(state),
			AssigneeID: c.QueryParam("assignee_id"),
			Limit:      limit,
			Cursor:     c.QueryParam("cursor"),
		},
	)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *Handler) GetEvents(c echo.Context) error {
	limit, err := limitParam(c)
	if err != nil {
		return err
	}

	result, err := h.taskService.GetEvents(c.Request().Context(), tenantID(c), limit)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

func tenantID(c echo.Context) string {
	v, _ := c.Get(middleware.ContextTenantID).(string)
	return v
}

func role(c echo.Context) constants.Role {
	v, _ := c.Get(middleware.ContextRole).(constants.Role)
	return v
}

// expectedVersion parses the If-Match-Version header every mutation carries.
func expectedVersion(c echo.Context) (uint, error) {
	raw := c.Request().Header.Get(headerIfMatchVersion)
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "missing required header: If-Match-Version")
	}

	version, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || version == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "If-Match-Version must be a positive integer")
	}

	return uint(version), nil
}

func limitParam(c echo.Context) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, echo.NewHTTPError(apperrors.ErrInvalidLimit.StatusCode, apperrors.ErrInvalidLimit.Message)
	}

	return limit, nil
}

func toHTTPError(err error) error {
	message := "internal server error"
	var appErr *apperrors.Exception
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	return echo.NewHTTPError(apperrors.StatusCode(err), message)
}
