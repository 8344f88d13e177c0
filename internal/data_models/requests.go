package dto

type CreateTaskRequest struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
}

type AssignTaskRequest struct {
	AssigneeID string `json:"assignee_id"`
}

type TransitionTaskRequest struct {
	ToState string `json:"to_state"`
}
