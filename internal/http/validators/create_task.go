package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"taskdesk.com/taskdesk/internal/constants"
	dto "taskdesk.com/taskdesk/internal/data_models"
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if strings.TrimSpace(r.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if r.Priority != "" && !constants.ValidPriority(constants.TaskPriority(r.Priority)) {
		return echo.NewHTTPError(http.StatusBadRequest, "priority must be one of: LOW, MEDIUM, HIGH")
	}
	return nil
}
