package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	apperrors "repair-pool.com/repair-pool/internal/errors"
	"repair-pool.com/repair-pool/internal/lease"
	"repair-pool.com/repair-pool/internal/metrics"
)

// AwardScheduler periodically awards open tasks whose bidding window has
// elapsed. Several instances may run; the lease keeps sweeps from
// overlapping and the workflow's version check keeps awards single.
type AwardScheduler struct {
	workflow *WorkflowService
	lease    lease.Manager
	interval time.Duration
	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once

	// ctx is cancelled on Shutdown so a sweep in flight stops early.
	ctx    context.Context
	cancel context.CancelFunc
}

func NewAwardScheduler(workflow *WorkflowService, leases lease.Manager, interval time.Duration) *AwardScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &AwardScheduler{
		workflow: workflow,
		lease:    leases,
		interval: interval,
		stop:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (a *AwardScheduler) Start() {
	a.wg.Add(1)
	go a.loop()
}

func (a *AwardScheduler) loop() {
	defer a.wg.Done()

	log.Printf("scheduler: auto-award sweep every %s", a.interval)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := a.Sweep(a.ctx); err != nil {
				log.Printf("scheduler: sweep failed, retrying next tick: %v", err)
			}
		case <-a.stop:
			return
		}
	}
}

// Sweep awards every due task once and returns how many awards it made.
// Tasks already handled elsewhere are skipped; storage failures on single
// tasks are logged and left for the next sweep.
func (a *AwardScheduler) Sweep(ctx context.Context) (int, error) {
	held, err := a.lease.Acquire(ctx)
	if err != nil {
		metrics.SchedulerSweeps.WithLabelValues("failed").Inc()
		return 0, err
	}
	if !held {
		metrics.SchedulerSweeps.WithLabelValues("skipped").Inc()
		return 0, nil
	}
	defer func() {
		if err := a.lease.Release(context.WithoutCancel(ctx)); err != nil {
			log.Printf("scheduler: releasing lease: %v", err)
		}
	}()

	due, err := a.workflow.DueForAward(ctx)
	if err != nil {
		metrics.SchedulerSweeps.WithLabelValues("failed").Inc()
		return 0, err
	}

	awarded := 0
	for _, task := range due {
		_, won, err := a.workflow.AutoAward(ctx, task.ID)
		switch {
		case err == nil:
			if won {
				awarded++
			}
		case errors.Is(err, apperrors.ErrInvalidTransition), errors.Is(err, apperrors.ErrTaskNotFound):
			log.Printf("scheduler: task %s already handled: %v", task.ID, err)
		default:
			log.Printf("scheduler: task %s: %v", task.ID, err)
		}
	}

	metrics.SchedulerSweeps.WithLabelValues("swept").Inc()
	if awarded > 0 {
		log.Printf("scheduler: awarded %d task(s)", awarded)
	}
	return awarded, nil
}

func (a *AwardScheduler) Shutdown(ctx context.Context) {
	a.stopOnce.Do(func() {
		close(a.stop)
		a.cancel()
	})

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("scheduler shut down cleanly")
	case <-ctx.Done():
		log.Println("scheduler shutdown timed out")
	}
}
