// Package metrics declares the portal's Prometheus collectors. They register
// with the default registry and are exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by route pattern, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmportal_http_requests_total",
		Help: "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "farmportal_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// AuthAttempts counts sign-in attempts by method (local, official, google) and result.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmportal_auth_attempts_total",
		Help: "Sign-in attempts by method and result",
	}, []string{"method", "result"})

	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmportal_registrations_total",
		Help: "Registrations by kind (farmer, official) and result",
	}, []string{"kind", "result"})

	// SchemeTransitions counts reviewer decisions by action and result.
	SchemeTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmportal_scheme_transitions_total",
		Help: "Scheme approve/disapprove decisions by action and result",
	}, []string{"action", "result"})

	SchemeApplications = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farmportal_scheme_applications_total",
		Help: "Scheme applications submitted",
	})

	SessionsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farmportal_sessions_purged_total",
		Help: "Expired sessions removed by the sweeper",
	})

	// DatabaseUp is 1 while the last health ping succeeded.
	DatabaseUp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "farmportal_database_up",
		Help: "Whether the last database ping succeeded",
	})
)

// Result maps an error onto the result label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
