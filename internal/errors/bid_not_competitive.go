package errors

import "net/http"

var ErrBidNotCompetitive = &Exception{
	Message:    "bid must be strictly below the current best price",
	StatusCode: http.StatusUnprocessableEntity,
}
