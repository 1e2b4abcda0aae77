package errors

import "net/http"

var ErrNotPermitted = &Exception{
	Message:    "action not permitted for this resident",
	StatusCode: http.StatusForbidden,
}
