package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for ledger operations.
type Metrics struct {
	CredentialsIssued *prometheus.CounterVec
	Verifications     *prometheus.CounterVec
	AirCallLatency    *prometheus.HistogramVec
}

// NewMetrics registers and returns ledger metrics collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		CredentialsIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "airgate_credentials_issued_total",
			Help: "Total number of credentials issued, labeled by credential type",
		}, []string{"type"}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "airgate_verifications_total",
			Help: "Total number of verification runs, labeled by gate and outcome",
		}, []string{"gate", "outcome"}),
		AirCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "airgate_air_call_latency_seconds",
			Help:    "Latency of outbound AIR service calls in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementCredentialsIssued(credType string) {
	m.CredentialsIssued.WithLabelValues(credType).Inc()
}

func (m *Metrics) IncrementVerifications(gate, outcome string) {
	m.Verifications.WithLabelValues(gate, outcome).Inc()
}

func (m *Metrics) ObserveAirCallLatency(operation string, seconds float64) {
	m.AirCallLatency.WithLabelValues(operation).Observe(seconds)
}
