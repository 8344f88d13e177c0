package errors

import "net/http"

// ErrTaskNotFound covers both an absent task and a task outside the requested
// workspace, so cross-workspace lookups do not leak existence.
var ErrTaskNotFound = &Exception{
	Kind:       KindNotFound,
	Message:    "task not found",
	StatusCode: http.StatusNotFound,
}
