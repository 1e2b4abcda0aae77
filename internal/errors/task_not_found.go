package errors

import "net/http"

var ErrTaskNotFound = &Exception{
	Message:    "maintenance task not found",
	StatusCode: http.StatusNotFound,
}
