package errors

import "net/http"

var ErrResidentNotFound = &Exception{
	Message:    "resident not found",
	StatusCode: http.StatusNotFound,
}
