package errors

import "net/http"

var ErrTaskIDRequired = &Exception{
	Message:    "maintenance task id is required",
	StatusCode: http.StatusBadRequest,
}
