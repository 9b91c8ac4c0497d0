// Package metrics defines and registers all custom Prometheus metrics for the
// task board API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto) and exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskboard"

// ── Board metrics ─────────────────────────────────────────────────────────────

// MutationsTotal counts resolved board intents.
// Labels:
//   - kind: "move", "create" or "edit"
//   - outcome: "applied", "unchanged" or "denied"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "board_mutations_total",
		Help:      "Total number of board intents, by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)

// MutationErrorsTotal counts intents rejected as structurally invalid.
// Label:
//   - kind: the intent kind
var MutationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "board_mutation_errors_total",
		Help:      "Total number of board intents rejected as invalid.",
	},
	[]string{"kind"},
)

// InvariantViolationsTotal counts transitions whose result failed the board
// consistency check. Any non-zero value is a bug.
var InvariantViolationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "board_invariant_violations_total",
		Help:      "Total number of transitions discarded because they broke board invariants.",
	},
)

// MutationDuration measures how long an intent takes from dequeue to commit.
var MutationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "board_mutation_duration_seconds",
		Help:      "Duration of board intent resolution.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// SnapshotStoreErrorsTotal counts failed snapshot cache operations.
// Label:
//   - op: "load" or "save"
var SnapshotStoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_store_errors_total",
		Help:      "Total number of snapshot cache operations that failed.",
	},
	[]string{"op"},
)

// SnapshotFallbacksTotal counts boards started from seed data.
// Label:
//   - reason: "missing", "corrupt", "inconsistent" or "unavailable"
var SnapshotFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_fallbacks_total",
		Help:      "Total number of boards initialised from seed data instead of the cache.",
	},
	[]string{"reason"},
)

// DispatchQueueDepth tracks the number of intents waiting per writer.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var DispatchQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dispatch_queue_depth",
		Help:      "Current number of intents pending in each board writer channel.",
	},
	[]string{"worker_id"},
)

// ── Form metrics ──────────────────────────────────────────────────────────────

// FormSubmissionsTotal counts form submissions.
// Labels:
//   - form: "registration", "registration_step", "support" or "upload"
//   - result: "accepted" or "rejected"
var FormSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "form_submissions_total",
		Help:      "Total number of form submissions, by form and validation result.",
	},
	[]string{"form", "result"},
)
