// Package metrics defines and registers all custom Prometheus metrics for the
// Djabaro console. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "djabaro"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "failure" or "rejected" (another attempt in flight)
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LoginDuration measures an honoured login attempt, simulated latency included.
var LoginDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of login attempts from acceptance to final state.",
		Buckets:   prometheus.DefBuckets,
	},
)

// LogoutsTotal counts logout transitions, including no-op ones.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logout calls.",
	},
)

// PersistenceErrorsTotal counts swallowed session persistence failures.
// Label:
//   - op: "load", "decode", "save" or "clear"
var PersistenceErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_persistence_errors_total",
		Help:      "Total number of session persistence failures recovered locally.",
	},
	[]string{"op"},
)

// SessionOwners tracks the number of live per-browser session owners.
var SessionOwners = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_owners",
		Help:      "Current number of browser contexts with a live session owner.",
	},
)

// ── Routing metrics ───────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - decision: "login" (no session) or "shell" (content rendered)
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions.",
	},
	[]string{"decision"},
)

// ── Toast metrics ─────────────────────────────────────────────────────────────

// ToastsTotal counts toast deliveries.
// Labels:
//   - variant: "default" or "destructive"
//   - result: "delivered" or "dropped"
var ToastsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "toasts_total",
		Help:      "Total number of toasts handled by the dispatcher.",
	},
	[]string{"variant", "result"},
)

// ToastQueueDepth tracks the number of toasts waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ToastQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "toast_queue_depth",
		Help:      "Current number of toasts pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
