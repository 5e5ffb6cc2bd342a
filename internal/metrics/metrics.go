package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcoot/pinochle-score/internal/model"
)

const namespace = "pinochle"

// Operation results
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
)

// Metrics holds the Prometheus collectors for the scoring flow
type Metrics struct {
	operations   *prometheus.CounterVec
	handOutcomes *prometheus.CounterVec
	gamesWon     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Scoring operations by name and result.",
		}, []string{"operation", "result"}),
		handOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hands_completed_total",
			Help:      "Completed hands by outcome.",
		}, []string{"outcome"}),
		gamesWon: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_won_total",
			Help:      "Finished games by winning team.",
		}, []string{"team"}),
	}
	reg.MustRegister(m.operations, m.handOutcomes, m.gamesWon)
	return m
}

// RecordOperation counts one controller operation
func (m *Metrics) RecordOperation(operation string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultRejected
	}
	m.operations.WithLabelValues(operation, result).Inc()
}

// RecordHandCompleted counts a hand folded into a game
func (m *Metrics) RecordHandCompleted(outcome model.HandOutcome) {
	m.handOutcomes.WithLabelValues(string(outcome)).Inc()
}

// RecordGameWon counts a game reaching the winning score
func (m *Metrics) RecordGameWon(team model.Team) {
	m.gamesWon.WithLabelValues(string(team)).Inc()
}
