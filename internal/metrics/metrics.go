package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts finished rounds and engine work. It satisfies both
// engine.SearchObserver and session.RoundObserver.
type Metrics struct {
	Rounds         *prometheus.CounterVec
	Searches       prometheus.Counter
	SearchNodes    prometheus.Counter
	SearchDuration prometheus.Histogram
}

// New creates the collectors and registers them with registerer.
func New(registerer prometheus.Registerer) *Metrics {
	that := &Metrics{
		Rounds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tictactoe_rounds_total",
				Help: "Finished rounds by outcome",
			},
			[]string{"outcome"},
		),
		Searches: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tictactoe_engine_searches_total",
				Help: "Best-move searches run by the computer player",
			},
		),
		SearchNodes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tictactoe_engine_nodes_total",
				Help: "Positions evaluated by the computer player",
			},
		),
		SearchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tictactoe_engine_search_seconds",
				Help:    "Wall time of one best-move search",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
	}

	registerer.MustRegister(that.Rounds, that.Searches, that.SearchNodes, that.SearchDuration)

	return that
}

func (that *Metrics) ObserveRound(outcome string) {
	that.Rounds.WithLabelValues(outcome).Inc()
}

func (that *Metrics) ObserveSearch(nodes int, elapsed time.Duration) {
	that.Searches.Inc()
	that.SearchNodes.Add(float64(nodes))
	that.SearchDuration.Observe(elapsed.Seconds())
}
