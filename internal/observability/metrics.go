package observability

import (
	"sync"
	"time"
)

// Metrics is a hand-rolled, dependency-free counter/histogram set for one
// generation job, grounded in the teacher's MetricsCollector
// (internal/infrastructure/monitoring/metrics.go): the same
// mutex-guarded-map-of-counters shape, generalised from per-workflow/
// per-node execution metrics to per-pass/per-variable placement metrics.
// prometheus/client_golang was considered and rejected: it does not
// appear in the teacher's or any pack repo's wireable code path for a
// pure in-memory, one-shot job like this (see DESIGN.md).
type Metrics struct {
	mu sync.Mutex

	assignmentsPlaced    int
	violationsBySeverity map[string]int
	passDurations        []time.Duration
	wallStart            time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		violationsBySeverity: make(map[string]int),
		wallStart:            time.Now(),
	}
}

func (m *Metrics) RecordAssignment() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignmentsPlaced++
}

func (m *Metrics) RecordViolation(severity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.violationsBySeverity[severity]++
}

func (m *Metrics) RecordPassDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passDurations = append(m.passDurations, d)
}

// Snapshot is a point-in-time copy of every counter, safe to hand to a
// report sink after the mutex is released.
type Snapshot struct {
	AssignmentsPlaced    int
	ViolationsBySeverity map[string]int
	PassCount            int
	WallTime             time.Duration
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	bySeverity := make(map[string]int, len(m.violationsBySeverity))
	for k, v := range m.violationsBySeverity {
		bySeverity[k] = v
	}

	return Snapshot{
		AssignmentsPlaced:    m.assignmentsPlaced,
		ViolationsBySeverity: bySeverity,
		PassCount:            len(m.passDurations),
		WallTime:             time.Since(m.wallStart),
	}
}
