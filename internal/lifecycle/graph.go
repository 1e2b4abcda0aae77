// Package lifecycle holds the legal status graph for a maintenance task.
package lifecycle

import (
	"fmt"

	"repair-pool.com/repair-pool/internal/constants"
	apperrors "repair-pool.com/repair-pool/internal/errors"
)

var edges = map[constants.TaskStatus][]constants.TaskStatus{
	constants.StatusPending:      {constants.StatusOpen, constants.StatusRejected},
	constants.StatusOpen:         {constants.StatusAwarded},
	constants.StatusAwarded:      {constants.StatusVerification},
	constants.StatusVerification: {constants.StatusAwarded, constants.StatusCompleted},
}

// rank is the position along the forward path. Rejected is off the path.
var rank = map[constants.TaskStatus]int{
	constants.StatusPending:      0,
	constants.StatusOpen:         1,
	constants.StatusAwarded:      2,
	constants.StatusVerification: 3,
	constants.StatusCompleted:    4,
}

func CanTransition(from, to constants.TaskStatus) bool {
	for _, next := range edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no edge leaves status.
func Terminal(status constants.TaskStatus) bool {
	return len(edges[status]) == 0
}

// Satisfied reports whether a task in current already reflects target, either
// because it sits there or because it is still on the forward path past it.
// A terminal status only satisfies itself.
func Satisfied(current, target constants.TaskStatus) bool {
	if current == target {
		return true
	}
	if current == constants.StatusRejected || target == constants.StatusRejected || Terminal(current) {
		return false
	}
	return rank[current] >= rank[target]
}

// Edge is one named transition of the graph.
type Edge struct {
	From constants.TaskStatus
	To   constants.TaskStatus
}

var (
	Approval     = Edge{constants.StatusPending, constants.StatusOpen}
	Rejection    = Edge{constants.StatusPending, constants.StatusRejected}
	Award        = Edge{constants.StatusOpen, constants.StatusAwarded}
	Submission   = Edge{constants.StatusAwarded, constants.StatusVerification}
	Rework       = Edge{constants.StatusVerification, constants.StatusAwarded}
	Verification = Edge{constants.StatusVerification, constants.StatusCompleted}
)

// backward reports whether the edge moves against the forward path, as rework does.
func (e Edge) backward() bool {
	return rank[e.To] < rank[e.From]
}

// Check decides how edge applies to a task currently in current. It returns
// apply=false with a nil error when the edge's effect is already in place,
// and ErrInvalidTransition when the task cannot take the edge.
func Check(current constants.TaskStatus, edge Edge) (apply bool, err error) {
	if current == edge.From && CanTransition(edge.From, edge.To) {
		return true, nil
	}
	if edge.backward() {
		if current == edge.To {
			return false, nil
		}
	} else if Satisfied(current, edge.To) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %s -> %s from %s", apperrors.ErrInvalidTransition, edge.From, edge.To, current)
}
