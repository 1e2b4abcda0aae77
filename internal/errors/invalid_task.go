package errors

import "net/http"

var ErrInvalidTask = &Exception{
	Message:    "invalid task",
	StatusCode: http.StatusBadRequest,
}
