// Package lease elects the single scheduler instance allowed to sweep on a
// given tick.
package lease

import (
	"context"
	"sync"
	"time"
)

type Manager interface {
	// Acquire returns true when the caller now holds the lease.
	Acquire(ctx context.Context) (bool, error)

	Release(ctx context.Context) error
}

// LocalManager only coordinates goroutines inside one process.
type LocalManager struct {
	mu    sync.Mutex
	ttl   time.Duration
	until time.Time
	now   func() time.Time
}

func NewLocalManager(ttl time.Duration) *LocalManager {
	return &LocalManager{ttl: ttl, now: time.Now}
}

func (l *LocalManager) Acquire(_ context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Before(l.until) {
		return false, nil
	}
	l.until = now.Add(l.ttl)
	return true, nil
}

func (l *LocalManager) Release(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.until = time.Time{}
	return nil
}
