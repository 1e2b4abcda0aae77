package errors

import (
	"errors"
	"net/http"
)

// Exception is a workflow failure that carries the HTTP status it maps to.
// Sentinels are wrapped with detail via fmt.Errorf("%w: ...").
type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

// StatusCode finds the outermost Exception in err's chain. Anything else,
// storage driver errors included, is a 500.
func StatusCode(err error) int {
	var workflowErr *Exception
	if errors.As(err, &workflowErr) {
		return workflowErr.StatusCode
	}
	return http.StatusInternalServerError
}
