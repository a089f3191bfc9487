package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// authRequestsTotal counts token requests by role and result.
	authRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total token requests by role and result",
		},
		[]string{"role", "result"}, // result: success | failure
	)

	// authDuration tracks token issuance latency by role.
	authDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_duration_seconds",
			Help:    "Token request duration by role",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"role"},
	)

	// authzDenied counts rejected requests to protected routes.
	authzDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_denied_total",
			Help: "Requests to protected routes rejected by reason (unauthorized, forbidden) and method",
		},
		[]string{"reason", "method"},
	)
)

// recordAuthRequest records the outcome and duration of a token request.
func recordAuthRequest(role, result string, d time.Duration) {
	if role == "" {
		role = "unknown"
	}
	authRequestsTotal.WithLabelValues(role, result).Inc()
	authDuration.WithLabelValues(role).Observe(d.Seconds())
}

// recordDenied records a rejected request to a protected route.
func recordDenied(reason, method string) {
	authzDenied.WithLabelValues(reason, method).Inc()
}
