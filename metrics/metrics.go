// Package metrics exposes Prometheus instrumentation for strategy
// resolution, fan-out execution and team membership.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Strategy metrics
	StrategiesResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tutormesh_strategies_resolved_total",
			Help: "Total number of strategies resolved from pedagogical requests",
		},
	)

	StrategiesApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutormesh_strategies_applied_total",
			Help: "Total number of strategies applied",
		},
		[]string{"status"},
	)

	StrategyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tutormesh_strategy_duration_seconds",
			Help:    "Strategy fan-out duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	// Activity metrics
	ActivitiesExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutormesh_activities_executed_total",
			Help: "Total number of activity executions against participant sessions",
		},
		[]string{"kind", "status"},
	)

	// Content provider metrics
	ContentFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutormesh_content_fetches_total",
			Help: "Total number of external content provider fetches",
		},
		[]string{"status"},
	)

	// Membership metrics
	MembershipTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutormesh_membership_transitions_total",
			Help: "Total number of team membership transitions",
		},
		[]string{"action", "status"},
	)

	// Monitor metrics
	ControllerMessages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tutormesh_controller_messages_total",
			Help: "Total number of controller-bound activity copies routed to monitors",
		},
	)
)
