package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ReconcilerRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "penya_reconciler_runs_total",
			Help: "The total number of player-stat reconciliations applied to a season aggregate.",
		}),
		ReconcilerSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "penya_reconciler_skips_total",
			Help: "The total number of reconciler invocations that were defined no-ops, by reason.",
		}, []string{"reason"}),
		AggregateConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "penya_aggregate_conflicts_total",
			Help: "The total number of optimistic-concurrency conflicts on season aggregates that were retried.",
		}),
		ReconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "penya_reconcile_duration_seconds",
			Help:    "The duration of individual reconciler invocations.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StatsTouched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "penya_stats_touched_total",
			Help: "The total number of player-stat records re-touched after a match was marked played.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "penya_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ReconcilerRuns,
		s.ReconcilerSkips,
		s.AggregateConflicts,
		s.ReconcileDuration,
		s.StatsTouched,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncReconcilerRuns() {
	s.ReconcilerRuns.Inc()
}

func (s *Service) IncReconcilerSkips(reason string) {
	s.ReconcilerSkips.WithLabelValues(reason).Inc()
}

func (s *Service) IncAggregateConflicts() {
	s.AggregateConflicts.Inc()
}

func (s *Service) ObserveReconcileDuration(seconds float64) {
	s.ReconcileDuration.Observe(seconds)
}

func (s *Service) AddStatsTouched(count int) {
	s.StatsTouched.Add(float64(count))
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
