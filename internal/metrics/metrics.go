package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts handled submissions by category and result
	// ("accepted", "degraded", "invalid", "fault").
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexhub_submissions_total",
			Help: "Total number of form submissions handled",
		},
		[]string{"category", "result"},
	)

	// SinkCallsTotal counts calls to external sinks ("persist", "notify", "team_notice").
	SinkCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexhub_sink_calls_total",
			Help: "Total number of calls to external persistence and notification sinks",
		},
		[]string{"sink", "category", "result"},
	)

	SinkDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nexhub_sink_duration_seconds",
			Help:    "Duration of external sink calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sink"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexhub_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)
)

// Result labels a sink call.
func Result(ok bool) string {
	if ok {
		return "ok"
	}
	return "fail"
}
