// Package vaultmetrics instruments the mock vault, adapted from
// cuemby/warren's pkg/metrics: the same package-level prometheus
// collectors registered once in init(), narrowed to what a single-process
// in-memory vault can actually report — request counts and latency,
// mutation charges, and quota exhaustion — since there is no cluster,
// raft, or scheduler here to instrument.
package vaultmetrics

import "github.com/prometheus/client_golang/prometheus"

var registry = prometheus.NewRegistry()

// Registry returns the collector registry an embedder can pass to
// promhttp.HandlerFor to expose /metrics. The core never listens on a
// socket itself — network transport is out of the core's scope.
func Registry() *prometheus.Registry {
	return registry
}

var (
	// RequestsTotal counts Router requests by operation and outcome.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mockvault_requests_total",
			Help: "Total number of vault requests by operation and result code",
		},
		[]string{"operation", "code"},
	)

	// RequestDuration tracks how long the Vault took to handle a request.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mockvault_request_duration_seconds",
			Help:    "Time taken to handle a vault request in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// AccountsCreated counts accounts created via PutMData's special case.
	AccountsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mockvault_accounts_created_total",
			Help: "Total number of accounts created",
		},
	)

	// MutationsCharged counts mutations successfully charged to an account.
	MutationsCharged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mockvault_mutations_charged_total",
			Help: "Total number of mutations charged across all accounts",
		},
	)

	// QuotaExhaustions counts LowBalance responses.
	QuotaExhaustions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mockvault_quota_exhaustions_total",
			Help: "Total number of requests rejected for insufficient mutation quota",
		},
	)

	// MutableObjectsCreated counts successful PutMData calls, including
	// the session-packet object stored when an account is created (the
	// account itself is also counted by AccountsCreated).
	MutableObjectsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mockvault_mutable_objects_created_total",
			Help: "Total number of mutable data objects created",
		},
	)

	// PermissionChanges counts successful set/del user-permission calls.
	PermissionChanges = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mockvault_permission_changes_total",
			Help: "Total number of mutable data permission changes applied",
		},
	)
)

func init() {
	registry.MustRegister(
		RequestsTotal,
		RequestDuration,
		AccountsCreated,
		MutationsCharged,
		QuotaExhaustions,
		MutableObjectsCreated,
		PermissionChanges,
	)
}
