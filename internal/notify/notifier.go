// Package notify carries notification intents to whatever delivers them.
// Delivery failures never roll back the workflow change that caused them.
package notify

import (
	"context"
	"time"
)

type Notification struct {
	TaskID     string    `json:"task_id"`
	Recipients []string  `json:"recipients"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	At         time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
