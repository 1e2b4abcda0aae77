package errors

import "net/http"

var ErrDuplicateVote = &Exception{
	Message:    "resident has already voted on this task",
	StatusCode: http.StatusConflict,
}
