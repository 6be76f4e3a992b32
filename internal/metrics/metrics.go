package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels successfully answered queries.
	OutcomeSuccess = "success"
	// OutcomeError labels failed queries (validation or engine issues).
	OutcomeError = "error"
)

var (
	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aurora_insight",
			Name:      "queries_total",
			Help:      "Total number of insight queries handled, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	queryDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aurora_insight",
			Name:      "query_seconds",
			Help:      "Insight query latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	narrativeFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "aurora_insight",
			Name:      "narrative_fallbacks_total",
			Help:      "Times the narrative selector fell back to templates because the collaborator was unavailable.",
		},
	)
)

// Register attaches insight-engine collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		queriesTotal,
		queryDurationSeconds,
		narrativeFallbacksTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveQuery records a query duration and outcome label.
func ObserveQuery(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	queriesTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	queryDurationSeconds.Observe(duration.Seconds())
}

// IncNarrativeFallback counts one collaborator failure absorbed by templates.
func IncNarrativeFallback() {
	narrativeFallbacksTotal.Inc()
}
