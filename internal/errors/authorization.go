package errors

import "net/http"

func Authorization(message string) *Exception {
	return &Exception{
		Kind:       KindAuthorization,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}
