// Package metrics defines and registers the custom Prometheus metrics of the
// habitat API. It is the single source of truth for metric names, labels and
// help strings. Metrics register themselves with the default registry on
// import through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "habitat"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// ── Bill metrics ──────────────────────────────────────────────────────────────

// BillPaymentsTotal counts payment attempts.
// Label:
//   - result: "paid", or the rejection kind ("insufficient", "invalid_state", "forbidden", "not_found", "error")
var BillPaymentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bill_payments_total",
		Help:      "Total number of bill payment attempts, labelled by result.",
	},
	[]string{"result"},
)

// BillsGeneratedTotal counts bills created through batch generation.
var BillsGeneratedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bills_generated_total",
		Help:      "Total number of bills created by batch generation.",
	},
)

// ── Payment ledger metrics ────────────────────────────────────────────────────

// LedgerEventsTotal counts ledger writes.
// Label:
//   - result: "recorded", "failed" or "dropped"
var LedgerEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_events_total",
		Help:      "Total number of payment ledger events, labelled by outcome.",
	},
	[]string{"result"},
)

// LedgerQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var LedgerQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ledger_queue_depth",
		Help:      "Current number of payment events pending in each ledger worker channel.",
	},
	[]string{"worker_id"},
)
