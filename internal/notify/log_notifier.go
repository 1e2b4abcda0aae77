package notify

import (
	"context"
	"log"
	"strings"
)

// LogNotifier writes intents to the process log. It is the sink used when no
// Redis channel is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	log.Printf("notify: task %s to [%s]: %s", n.TaskID, strings.Join(n.Recipients, ","), n.Subject)
	return nil
}
