package errors

import "net/http"

var ErrResidentInactive = &Exception{
	Message:    "resident is not active",
	StatusCode: http.StatusForbidden,
}
