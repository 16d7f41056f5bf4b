// Package metrics defines the custom Prometheus metrics for the helpdesk
// API. It is the single source of truth for metric names, labels, and help
// strings. Metrics register with the default registry at init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "helpdesk"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SignupsTotal counts signup attempts.
// Label:
//   - result: "success", "duplicate", or "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// ── Ticket metrics ────────────────────────────────────────────────────────────

// TicketsCreatedTotal counts newly created tickets.
var TicketsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_created_total",
		Help:      "Total number of tickets created.",
	},
)

// MessagesCreatedTotal counts messages appended to ticket threads.
// Label:
//   - role: "owner" (ticket author) or "staff" (privileged user)
var MessagesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_created_total",
		Help:      "Total number of ticket messages created, by author role.",
	},
	[]string{"role"},
)

// ── Billing metrics ───────────────────────────────────────────────────────────

// BillingLookupDuration measures how long a subscription lookup against the
// billing provider takes. These calls sit on the request hot path on cache
// misses, so the histogram is the first place to look when latency climbs.
// Label:
//   - outcome: "ok" or "error"
var BillingLookupDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "billing_lookup_duration_seconds",
		Help:      "Duration of subscription lookups against the billing provider.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// SubscriptionCacheTotal counts subscription cache decisions.
// Label:
//   - result: "hit" or "miss"
var SubscriptionCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "subscription_cache_total",
		Help:      "Total number of subscription cache checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
