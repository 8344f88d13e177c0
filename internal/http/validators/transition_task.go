package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskdesk.com/taskdesk/internal/constants"
	dto "taskdesk.com/taskdesk/internal/data_models"
)

func ValidateTransitionTaskRequest(r *dto.TransitionTaskRequest) error {
	if r.ToState == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "to_state is required")
	}
	if !constants.ValidState(constants.TaskState(r.ToState)) {
		return echo.NewHTTPError(http.StatusBadRequest, "to_state must be one of: NEW, IN_PROGRESS, DONE, CANCELLED")
	}
	return nil
}
