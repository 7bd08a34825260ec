// Package metrics exposes Prometheus counters for score operations
// and leaderboard reports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Report results.
const (
	ReportSent     = "sent"
	ReportFailed   = "failed"
	ReportNoLedger = "no_ledger"
)

// Metrics holds the bot's collectors.
type Metrics struct {
	// ScoreOperations counts applied score changes by direction (up/down)
	ScoreOperations *prometheus.CounterVec

	// ExtractionMisses counts triggers without a mention marker in front
	ExtractionMisses prometheus.Counter

	// Reports counts leaderboard requests by result
	Reports *prometheus.CounterVec

	// Teams tracks the number of team ledgers
	Teams prometheus.Gauge
}

// New registers the collectors with reg. A nil reg uses the default
// Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ScoreOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leaderboard_score_operations_total",
				Help: "Total score changes applied by direction",
			},
			[]string{"direction"},
		),
		ExtractionMisses: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "leaderboard_extraction_misses_total",
				Help: "Total triggers ignored because no subject was mentioned",
			},
		),
		Reports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leaderboard_reports_total",
				Help: "Total leaderboard requests by result",
			},
			[]string{"result"},
		),
		Teams: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "leaderboard_teams",
				Help: "Number of teams with a leaderboard",
			},
		),
	}
}

// ScoreApplied records a score change of delta.
func (m *Metrics) ScoreApplied(delta int) {
	if m == nil {
		return
	}

	direction := "up"
	if delta < 0 {
		direction = "down"
	}
	m.ScoreOperations.WithLabelValues(direction).Inc()
}

// ExtractionMissed records a trigger that had no subject.
func (m *Metrics) ExtractionMissed() {
	if m == nil {
		return
	}
	m.ExtractionMisses.Inc()
}

// Report records the result of a leaderboard request.
func (m *Metrics) Report(result string) {
	if m == nil {
		return
	}
	m.Reports.WithLabelValues(result).Inc()
}

// SetTeams sets the number of team ledgers.
func (m *Metrics) SetTeams(n int) {
	if m == nil {
		return
	}
	m.Teams.Set(float64(n))
}
