package errors

import "net/http"

var ErrInvalidTransition = &Exception{
	Message:    "invalid state transition",
	StatusCode: http.StatusConflict,
}
