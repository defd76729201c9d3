package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AuthMetrics contadores de login y refresco de sesión. Implementa auth.Recorder.
type AuthMetrics struct {
	logins          *prometheus.CounterVec
	refreshFailures prometheus.Counter
}

// NewAuthMetrics registra los contadores en reg.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	m := &AuthMetrics{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "obras",
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Intentos de login por resultado.",
		}, []string{"outcome"}),
		refreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "obras",
			Subsystem: "auth",
			Name:      "session_refresh_failures_total",
			Help:      "Refrescos de sesión omitidos por error del store.",
		}),
	}
	reg.MustRegister(m.logins, m.refreshFailures)
	return m
}

// LoginAttempt cuenta un intento de login con su resultado.
func (m *AuthMetrics) LoginAttempt(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

// RefreshFailed cuenta un refresco absorbido.
func (m *AuthMetrics) RefreshFailed() {
	m.refreshFailures.Inc()
}
