// Package metrics defines and registers all custom Prometheus metrics for the
// employee service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Collectors are registered with the default Prometheus registry on package
// initialisation; HTTP metrics are added separately by the echoprometheus
// middleware in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "employee_costs"

// ── Authentication metrics ───────────────────────────────────────────────────

// AuthGateOutcomesTotal counts authentication gate decisions.
// Label:
//   - outcome: "anonymous", "established", "token_rejected", "identity_rejected" or "subject_mismatch"
var AuthGateOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_gate_outcomes_total",
		Help:      "Total number of requests seen by the authentication gate, by outcome.",
	},
	[]string{"outcome"},
)

// IdentityLookupDuration measures calls to the identity service.
// Label:
//   - result: "ok", "not_found", "timeout" or "unavailable"
var IdentityLookupDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "identity_lookup_duration_seconds",
		Help:      "Duration of identity service lookups.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// IdentityCacheTotal counts identity cache lookups.
// Label:
//   - result: "hit" or "miss"
var IdentityCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_cache_total",
		Help:      "Total number of identity cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Ledger metrics ───────────────────────────────────────────────────────────

// LedgerRejectionsTotal counts ledger writes refused before reaching the store.
// Labels:
//   - record: "work_hours" or "allocation"
//   - reason: "invalid_target", "invalid_hours", "invalid_project", "invalid_period", "overlap" or "invalid"
var LedgerRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_rejections_total",
		Help:      "Total number of ledger writes rejected by validation.",
	},
	[]string{"record", "reason"},
)

// WorkHoursCostTotal accumulates the derived cost of accepted work-hour entries.
var WorkHoursCostTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "work_hours_cost_total",
		Help:      "Sum of calculated cost over all created work-hour entries.",
	},
)

// ── Employee metrics ─────────────────────────────────────────────────────────

// EmployeesCreatedTotal counts newly created employees.
// Label:
//   - employment_type: e.g. "FULL_TIME", "CONTRACTOR"
var EmployeesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "employees_created_total",
		Help:      "Total number of employees created, by employment type.",
	},
	[]string{"employment_type"},
)
