// Package metrics defines all custom Prometheus metrics for the API. It is
// the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "boilerplate"

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts handled requests.
// Labels:
//   - method: HTTP method
//   - route: the matched route template (e.g. "/v1/users/:id"), never the raw path
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method and route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreOperationsTotal counts document store calls.
// Labels:
//   - collection: collection name (e.g. "users")
//   - operation: driver call (e.g. "find", "update_many")
//   - result: "ok" or "error"
var StoreOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_operations_total",
		Help:      "Total number of document store operations, by collection, operation and result.",
	},
	[]string{"collection", "operation", "result"},
)

// StoreOperationDuration measures document store round trips.
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of document store operations.",
		Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	},
	[]string{"collection", "operation"},
)

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersCreatedTotal counts newly created users.
// Label:
//   - role: "admin" or "member"
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created, by role.",
	},
	[]string{"role"},
)

// UsersDeletedTotal counts user removals.
// Label:
//   - mode: "soft" (reversible) or "force" (physical)
var UsersDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of users deleted, by mode.",
	},
	[]string{"mode"},
)

// UsersRestoredTotal counts soft-deleted users brought back.
var UsersRestoredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_restored_total",
		Help:      "Total number of soft-deleted users restored.",
	},
)

// StatsCacheTotal counts user stats cache lookups.
// Label:
//   - result: "hit" or "miss"
var StatsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_total",
		Help:      "Total number of user stats cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
