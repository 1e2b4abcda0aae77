// Package metrics exposes workflow counters on the Prometheus default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transitions counts committed status changes.
var Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "repair_pool",
	Subsystem: "workflow",
	Name:      "transitions_total",
	Help:      "Committed task status transitions.",
}, []string{"from", "to"})

// Bids counts bid submissions by outcome.
var Bids = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "repair_pool",
	Subsystem: "auction",
	Name:      "bids_total",
	Help:      "Bid submissions by result.",
}, []string{"result"})

// Awards counts awards by trigger (manual or scheduler).
var Awards = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "repair_pool",
	Subsystem: "auction",
	Name:      "awards_total",
	Help:      "Tasks awarded, by trigger.",
}, []string{"trigger"})

var Conflicts = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "repair_pool",
	Subsystem: "workflow",
	Name:      "optimistic_conflicts_total",
	Help:      "Saves that lost an optimistic version check.",
})

var LedgerPostings = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "repair_pool",
	Subsystem: "settlement",
	Name:      "ledger_postings_total",
	Help:      "Ledger entries written on completion.",
}, []string{"type"})

// SchedulerSweeps counts award sweeps by result (swept, skipped, failed).
var SchedulerSweeps = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "repair_pool",
	Subsystem: "scheduler",
	Name:      "sweeps_total",
	Help:      "Auto-award sweeps by result.",
}, []string{"result"})

var NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "repair_pool",
	Subsystem: "notify",
	Name:      "failures_total",
	Help:      "Notification intents the sink refused.",
})
