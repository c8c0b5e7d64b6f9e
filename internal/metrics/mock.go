package metrics

import "sync"

// MockMetrics is a mock implementation of Metrics for testing.
// It is safe for concurrent use.
type MockMetrics struct {
	mu sync.Mutex

	ReconcilerRunsCount     int
	ReconcilerSkipsByReason map[string]int
	AggregateConflictsCount int
	ReconcileDurations      []float64
	StatsTouchedTotal       int
	StartupTime             float64
}

// NewMock creates a new mock Metrics.
func NewMock() *MockMetrics {
	return &MockMetrics{
		ReconcilerSkipsByReason: make(map[string]int),
	}
}

func (m *MockMetrics) IncReconcilerRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReconcilerRunsCount++
}

func (m *MockMetrics) IncReconcilerSkips(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReconcilerSkipsByReason[reason]++
}

func (m *MockMetrics) IncAggregateConflicts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AggregateConflictsCount++
}

func (m *MockMetrics) ObserveReconcileDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReconcileDurations = append(m.ReconcileDurations, seconds)
}

func (m *MockMetrics) AddStatsTouched(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatsTouchedTotal += count
}

func (m *MockMetrics) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTime = seconds
}
