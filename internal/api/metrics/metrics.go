// Package metrics defines and registers the custom Prometheus metrics of the
// catalog API. HTTP request metrics come from echoprometheus; the collectors
// here count what the request metrics cannot see: why a request was
// rejected and what it changed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login calls.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", "rejected" (bad credentials or duplicate email) or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// GuardRejectionsTotal counts requests halted by a guard before reaching a handler.
// Labels:
//   - guard: e.g. "authenticate", "require_role", "product_payload"
//   - status: the HTTP status returned
var GuardRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_rejections_total",
		Help:      "Total number of requests rejected by a guard, by guard and status.",
	},
	[]string{"guard", "status"},
)

// ── Product metrics ───────────────────────────────────────────────────────────

// ProductMutationsTotal counts successful product writes.
// Label:
//   - operation: "create", "update" or "delete"
var ProductMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_mutations_total",
		Help:      "Total number of products created, updated or deleted.",
	},
	[]string{"operation"},
)

// IdempotentReplaysTotal counts product creations answered from a remembered
// Idempotency-Key instead of a new insert.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of product creations replayed from an idempotency key.",
	},
)
