package synthesis

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records fixpoint statistics per synthesis stage. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	passes   *prometheus.CounterVec
	pruned   *prometheus.CounterVec
	states   *prometheus.GaugeVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tictactoe",
			Subsystem: "synthesis",
			Name:      "fixpoint_passes_total",
			Help:      "Fixpoint passes run until convergence.",
		}, []string{"stage"}),
		pruned: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tictactoe",
			Subsystem: "synthesis",
			Name:      "bad_states_total",
			Help:      "States marked bad and pruned.",
		}, []string{"stage"}),
		states: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "tictactoe",
			Subsystem: "synthesis",
			Name:      "result_states",
			Help:      "States in the synthesized automaton.",
		}, []string{"stage"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tictactoe",
			Subsystem: "synthesis",
			Name:      "duration_seconds",
			Help:      "Wall time of one synthesis stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
	}
}

func (that *Metrics) observe(stage string, passes, bad, states int, elapsed time.Duration) {
	if that == nil {
		return
	}

	that.passes.WithLabelValues(stage).Add(float64(passes))
	that.pruned.WithLabelValues(stage).Add(float64(bad))
	that.states.WithLabelValues(stage).Set(float64(states))
	that.duration.WithLabelValues(stage).Observe(elapsed.Seconds())
}
