package errors

import "net/http"

var ErrRatingNotFound = &Exception{
	Message:    "rating not found",
	StatusCode: http.StatusNotFound,
}
