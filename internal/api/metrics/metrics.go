// Package metrics defines and registers all custom Prometheus metrics for the
// blog API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// Per-route request counts and latencies come from echoprometheus in the router.

// RateLimitedTotal counts requests rejected by the per-IP limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful registrations.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of users registered.",
	},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "unknown_user", "invalid_credentials" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthRejectionsTotal counts requests stopped by the auth guard.
// Label:
//   - reason: "missing" (401) or "invalid" (403)
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by token verification.",
	},
	[]string{"reason"},
)

// ── Post metrics ──────────────────────────────────────────────────────────────

// PostWritesTotal counts successful author-scoped writes.
// Label:
//   - action: "created", "updated" or "deleted"
var PostWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "post_writes_total",
		Help:      "Total number of post writes, by action.",
	},
	[]string{"action"},
)

// ActivityQueueDepth tracks the number of activities waiting in each dispatcher worker channel.
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activities pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts activities discarded because a worker channel was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of post activities dropped on a full queue.",
	},
)

// ActivityErrorsTotal counts activities that failed to persist.
var ActivityErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_errors_total",
		Help:      "Total number of post activities that failed to persist.",
	},
)
