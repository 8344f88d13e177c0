package errors

import "net/http"

var ErrVersionConflict = &Exception{
	Kind:       KindVersionConflict,
	Message:    "version conflict: task was modified by another transaction",
	StatusCode: http.StatusConflict,
}
