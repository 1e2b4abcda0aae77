package errors

import "net/http"

var ErrInvalidRating = &Exception{
	Message:    "invalid rating",
	StatusCode: http.StatusBadRequest,
}
