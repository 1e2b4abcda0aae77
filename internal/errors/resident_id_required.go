package errors

import "net/http"

var ErrResidentIDRequired = &Exception{
	Message:    "resident id is required",
	StatusCode: http.StatusBadRequest,
}
