// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadcore_submissions_total",
			Help: "Inquiry submissions by outcome (stored, fallback, invalid).",
		},
		[]string{"outcome"},
	)

	RelayDispatchTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leadcore_relay_dispatch_total",
			Help: "Webhook envelopes handed to the relay.",
		})

	RelayFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leadcore_relay_failures_total",
			Help: "Webhook dispatches that failed locally (best-effort, not retried).",
		})

	AdminRefreshTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leadcore_admin_refresh_total",
			Help: "Full re-reads of the inquiry mirror triggered by the change feed.",
		})

	FallbackQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "leadcore_fallback_queue_depth",
			Help: "Inquiries currently stranded in the local fallback queue.",
		})
)

func init() {
	prometheus.MustRegister(
		SubmissionsTotal,
		RelayDispatchTotal,
		RelayFailuresTotal,
		AdminRefreshTotal,
		FallbackQueueDepth,
	)
}
