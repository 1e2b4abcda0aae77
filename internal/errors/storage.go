package errors

import "net/http"

var ErrStorage = &Exception{
	Message:    "storage unavailable",
	StatusCode: http.StatusInternalServerError,
}
