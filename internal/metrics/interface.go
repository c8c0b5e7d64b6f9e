package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncReconcilerRuns()
	IncReconcilerSkips(reason string)
	IncAggregateConflicts()
	ObserveReconcileDuration(seconds float64)
	AddStatsTouched(count int)
	SetStartupTime(seconds float64)
}
