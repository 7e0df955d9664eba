// Package metrics defines and registers all custom Prometheus metrics for the
// catalog admin console. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// ── Session metrics ───────────────────────────────────────────────────────────

// ActiveSessions tracks the number of session stores held in memory.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Current number of browser sessions held in memory.",
	},
)

// LoginsTotal counts sign-in attempts.
// Label:
//   - result: "success", "rejected", "error" or "busy"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// ── Catalog API metrics ───────────────────────────────────────────────────────

// APIRequestsTotal counts outgoing calls to the catalog API.
// Labels:
//   - resource: the catalog resource (e.g. "products", "auth")
//   - method:   the HTTP method
//   - outcome:  "ok", "client_error", "server_error" or "transport_error"
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_api_requests_total",
		Help:      "Total number of catalog API requests, by resource, method and outcome.",
	},
	[]string{"resource", "method", "outcome"},
)

// APIRequestDuration measures catalog API round trips.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "catalog_api_request_duration_seconds",
		Help:      "Duration of catalog API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"resource"},
)

// ── Listing metrics ───────────────────────────────────────────────────────────

// StaleLoadsDiscardedTotal counts listing responses dropped because a newer
// load for the same listing had started.
var StaleLoadsDiscardedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_loads_discarded_total",
		Help:      "Total number of listing responses discarded as superseded.",
	},
	[]string{"resource"},
)
