package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "taskdesk.com/taskdesk/internal/data_models"
)

func ValidateAssignTaskRequest(r *dto.AssignTaskRequest) error {
	if r.AssigneeID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "assignee_id is required")
	}
	return nil
}
