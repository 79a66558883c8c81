// Package metrics exposes Prometheus instrumentation for the gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gateway's Prometheus collectors.
type Metrics struct {
	// LoginsTotal counts completed login flows by outcome
	// (authenticated, unauthorized, auth_failed).
	LoginsTotal *prometheus.CounterVec

	// AccessDeniedTotal counts denied page requests by decision
	// (redirect_to_login, no_role_assigned, forbidden).
	AccessDeniedTotal *prometheus.CounterVec

	// ActiveSessions reports the current session count.
	ActiveSessions prometheus.GaugeFunc
}

// New registers the gateway collectors on reg. sessionCount feeds the
// active-session gauge.
func New(reg prometheus.Registerer, sessionCount func() int) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LoginsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard_sso",
			Name:      "logins_total",
			Help:      "Completed login flows by outcome.",
		}, []string{"outcome"}),

		AccessDeniedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard_sso",
			Name:      "access_denied_total",
			Help:      "Denied page requests by decision.",
		}, []string{"decision"}),

		ActiveSessions: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "dashboard_sso",
			Name:      "active_sessions",
			Help:      "Current number of stored sessions.",
		}, func() float64 {
			return float64(sessionCount())
		}),
	}
}
