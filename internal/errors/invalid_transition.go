package errors

import "net/http"

var ErrInvalidTransition = &Exception{
	Kind:       KindInvalidTransition,
	Message:    "invalid state transition",
	StatusCode: http.StatusConflict,
}
