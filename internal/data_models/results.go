package dto

import (
	"taskdesk.com/taskdesk/internal/constants"
	model "taskdesk.com/taskdesk/internal/models"
)

type CreateTaskResult struct {
	Task *model.Task `json:"task"`
}

// AssignEventSummary is the delta of a TASK_ASSIGNED mutation.
// PreviousAssignee is null when the task was unassigned.
type AssignEventSummary struct {
	Type             constants.EventType `json:"type"`
	PreviousAssignee *string             `json:"previous_assignee"`
	NewAssignee      string              `json:"new_assignee"`
}

type AssignTaskResult struct {
	Task  *model.Task        `json:"task"`
	Event AssignEventSummary `json:"event"`
}

type TransitionEventSummary struct {
	Type      constants.EventType `json:"type"`
	FromState constants.TaskState `json:"from_state"`
	ToState   constants.TaskState `json:"to_state"`
	ChangedBy constants.Role      `json:"changed_by"`
}

type TransitionTaskResult struct {
	Task  *model.Task            `json:"task"`
	Event TransitionEventSummary `json:"event"`
}

type TaskWithTimeline struct {
	Task     *model.Task       `json:"task"`
	Timeline []model.TaskEvent `json:"timeline"`
}

type TaskPage struct {
	Tasks      []model.Task `json:"tasks"`
	NextCursor *string      `json:"next_cursor"`
}

type EventList struct {
	Events []model.TaskEvent `json:"events"`
	Count  int               `json:"count"`
}
