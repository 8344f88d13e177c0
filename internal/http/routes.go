package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "taskdesk.com/taskdesk/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.GET("/health", h.Health)

	v1 := e.Group("/v1", middleware.RequireIdentity())
	v1.POST("/workspaces/:workspaceId/tasks", h.CreateTask)
	v1.GET("/workspaces/:workspaceId/tasks", h.ListTasks)
	v1.GET("/workspaces/:workspaceId/tasks/:taskId", h.GetTask)
	v1.POST("/workspaces/:workspaceId/tasks/:taskId/assign", h.AssignTask)
	v1.POST("/workspaces/:workspaceId/tasks/:taskId/transition", h.TransitionTask)
	v1.GET("/events", h.GetEvents)
}
