// Package metrics holds the Prometheus collectors exported on /metrics.
// All collectors register with the default registry through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fieldtech"

// HTTPRequestsTotal counts finished requests by chi route pattern, method and status.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"route", "method", "status"},
)

var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

// LoginsTotal counts login attempts. Label outcome: success, invalid_credentials, error.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ClientsCreatedTotal counts registrations. Label channel: authenticated or anonymous.
var ClientsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clients_created_total",
		Help:      "Total number of client records created.",
	},
	[]string{"channel"},
)

var AuditWriteFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_failures_total",
		Help:      "Audit events that could not be persisted.",
	},
)

var SerialHistoryWriteFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "serial_history_write_failures_total",
		Help:      "Serial history entries that could not be persisted.",
	},
)

// CarrierCallsTotal counts carrier portal calls. Labels: action and outcome
// (ok, not_found, not_configured, upstream_error, unreachable).
var CarrierCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "carrier_calls_total",
		Help:      "Total number of carrier portal calls, by action and outcome.",
	},
	[]string{"action", "outcome"},
)
