// Package stub provides deterministic in-memory ports.SchoolSource/
// ScheduleSource/FollowUpSource/RulesSource implementations, for
// integration tests and cmd/timetable-gen's example run -- the module has
// no CSV/CLI adapter layer (spec.md §1 Non-goals), so these are what
// stand in for one.
package stub

import (
	"context"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/config"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/ports"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// SchoolSource returns a fixed *school.School built ahead of time (e.g. by
// school.Builder in a test or example main).
type SchoolSource struct {
	School *school.School
}

func (s SchoolSource) LoadSchool(ctx context.Context) (*school.School, error) {
	return s.School, nil
}

// ScheduleSource returns a fixed initial *schedule.Schedule, ignoring the
// school argument (the stub's caller is responsible for having built it
// against the same school already).
type ScheduleSource struct {
	Initial *schedule.Schedule
}

func (s ScheduleSource) LoadInitialSchedule(ctx context.Context, sc *school.School) (*schedule.Schedule, error) {
	if s.Initial != nil {
		return s.Initial, nil
	}
	return schedule.New(), nil
}

// FollowUpSource returns a fixed overlay.
type FollowUpSource struct {
	Overlay ports.FollowUpOverlay
}

func (s FollowUpSource) LoadFollowUp(ctx context.Context) (ports.FollowUpOverlay, error) {
	return s.Overlay, nil
}

// RulesSource returns a fixed Rules document.
type RulesSource struct {
	Rules config.Rules
}

func (s RulesSource) LoadRules(ctx context.Context) (config.Rules, error) {
	return s.Rules, nil
}
