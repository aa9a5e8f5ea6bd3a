package initializer

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts reconciliation runs and inserted records.
type Metrics struct {
	inserted *prometheus.CounterVec
	runs     *prometheus.CounterVec
}

// NewMetrics creates the seeding collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		inserted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dlf_seed_records_inserted_total",
				Help: "Number of default records inserted, translation shadows included",
			},
			[]string{"category"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dlf_seed_runs_total",
				Help: "Number of category reconciliations by terminal state",
			},
			[]string{"category", "state"},
		),
	}
	reg.MustRegister(m.inserted, m.runs)
	return m
}

func (m *Metrics) observe(res Result) {
	if m == nil {
		return
	}
	category := string(res.Category)
	m.runs.WithLabelValues(category, string(res.State)).Inc()
	if n := res.Inserted + res.Translated; n > 0 {
		m.inserted.WithLabelValues(category).Add(float64(n))
	}
}
