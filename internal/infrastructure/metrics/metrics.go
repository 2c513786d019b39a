// Package metrics provides Prometheus metrics for the chat-router service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chat_router"

var (
	// HTTPRequestsTotal counts HTTP requests by route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RoutedMessagesTotal counts routed messages by decision and outcome.
	RoutedMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routed_messages_total",
			Help:      "Total number of routed chat messages",
		},
		[]string{"decision", "outcome"},
	)

	// AgentEventsTotal counts audit events by agent, event and level.
	AgentEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_events_total",
			Help:      "Total number of agent audit events",
		},
		[]string{"agent", "event", "level"},
	)

	// AgentDuration tracks how long each agent took to act.
	AgentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "agent_duration_seconds",
			Help:      "Duration of agent work per event",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"agent", "event"},
	)

	// StoreOperationDuration tracks conversation store latency by operation.
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of conversation store operations",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"operation"},
	)

	// StoreErrorsTotal counts failed conversation store operations.
	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Total number of failed conversation store operations",
		},
		[]string{"operation"},
	)

	// ReconciledEntriesTotal counts orphaned index and label entries removed.
	ReconciledEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciled_entries_total",
			Help:      "Total number of orphaned entries removed by the reconciliation sweep",
		},
		[]string{"kind"},
	)

	// RetrievalIndexLoads counts retrieval index initializations by result.
	RetrievalIndexLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_index_loads_total",
			Help:      "Total number of retrieval index initialization attempts",
		},
		[]string{"result"},
	)

	// EmbeddingCacheLookups counts query-embedding cache hits and misses.
	EmbeddingCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_lookups_total",
			Help:      "Total number of query embedding cache lookups",
		},
		[]string{"result"},
	)
)

// RecordRouted records the outcome of one routed message.
func RecordRouted(decision, outcome string) {
	RoutedMessagesTotal.WithLabelValues(decision, outcome).Inc()
}

// RecordStoreOperation records a store call's latency and failure.
func RecordStoreOperation(operation string, seconds float64, err error) {
	StoreOperationDuration.WithLabelValues(operation).Observe(seconds)
	if err != nil {
		StoreErrorsTotal.WithLabelValues(operation).Inc()
	}
}
