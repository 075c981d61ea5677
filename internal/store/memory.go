// Package store holds ports.ScheduleSink/ReportSink implementations.
// Grounded in the teacher's internal/infrastructure/storage package: the
// same in-memory-default-plus-bun-backed-option split
// (memory.go/bun_store.go), generalised from workflow/execution/event
// persistence to schedule/report persistence.
package store

import (
	"context"
	"sync"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/ports"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
)

// MemoryStore is the default ports.ScheduleSink/ReportSink for tests and
// for a cmd/timetable-gen run with no database configured.
type MemoryStore struct {
	mu        sync.RWMutex
	schedules []*schedule.Schedule
	reports   []Report
}

// Report bundles one generation job's validation result and statistics,
// the unit MemoryStore/BunStore actually persists.
type Report struct {
	Result constraint.ValidationResult
	Stats  ports.Stats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) WriteSchedule(ctx context.Context, sched *schedule.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = append(s.schedules, sched)
	return nil
}

func (s *MemoryStore) WriteReport(ctx context.Context, result constraint.ValidationResult, stats ports.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, Report{Result: result, Stats: stats})
	return nil
}

// Schedules returns every schedule written so far, most recent last.
func (s *MemoryStore) Schedules() []*schedule.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*schedule.Schedule, len(s.schedules))
	copy(out, s.schedules)
	return out
}

// Reports returns every report written so far, most recent last.
func (s *MemoryStore) Reports() []Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Report, len(s.reports))
	copy(out, s.reports)
	return out
}
