package errors

import "net/http"

var ErrInvalidBidAmount = &Exception{
	Message:    "bid amount must be positive",
	StatusCode: http.StatusBadRequest,
}
