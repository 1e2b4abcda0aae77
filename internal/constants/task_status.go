package constants

type TaskStatus string

const (
	StatusPending      TaskStatus = "pending"
	StatusOpen         TaskStatus = "open"
	StatusAwarded      TaskStatus = "awarded"
	StatusVerification TaskStatus = "verification"
	StatusCompleted    TaskStatus = "completed"
	StatusRejected     TaskStatus = "rejected"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusOpen, StatusAwarded, StatusVerification, StatusCompleted, StatusRejected:
		return true
	}
	return false
}
