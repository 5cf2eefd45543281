package scenario

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for scenario runs.
type Metrics struct {
	Runs        *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
}

// NewMetrics registers and returns scenario metrics collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Runs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "airgate_scenario_runs_total",
			Help: "Total number of scenario runs, labeled by scenario and outcome",
		}, []string{"scenario", "outcome"}),
		RunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "airgate_scenario_run_duration_seconds",
			Help:    "Duration of scenario runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"scenario"}),
	}
}

func (m *Metrics) IncrementRuns(scenario, outcome string) {
	m.Runs.WithLabelValues(scenario, outcome).Inc()
}

func (m *Metrics) ObserveRunDuration(scenario string, seconds float64) {
	m.RunDuration.WithLabelValues(scenario).Observe(seconds)
}
