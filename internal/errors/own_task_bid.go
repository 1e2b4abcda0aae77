package errors

import "net/http"

var ErrOwnTaskBid = &Exception{
	Message:    "proposer cannot bid on their own task",
	StatusCode: http.StatusForbidden,
}
