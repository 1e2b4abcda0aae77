package errors

import "net/http"

var ErrConcurrentModification = &Exception{
	Message:    "task was modified concurrently",
	StatusCode: http.StatusConflict,
}
