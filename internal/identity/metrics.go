package identity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for session operations.
type Metrics struct {
	Logins       *prometheus.CounterVec
	Logouts      prometheus.Counter
	LoginLatency prometheus.Histogram
}

// NewMetrics registers and returns session metrics collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "airgate_logins_total",
			Help: "Total number of AIR login attempts, labeled by result",
		}, []string{"result"}),
		Logouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "airgate_logouts_total",
			Help: "Total number of logouts",
		}),
		LoginLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "airgate_login_latency_seconds",
			Help:    "Latency of AIR login round trips in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncrementLogins(result string) {
	m.Logins.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementLogouts() {
	m.Logouts.Inc()
}

func (m *Metrics) ObserveLoginLatency(seconds float64) {
	m.LoginLatency.Observe(seconds)
}
