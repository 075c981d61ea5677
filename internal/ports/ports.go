// Package ports is the external-interfaces boundary (spec component C11):
// the four input sources and two output sinks the core consumes and
// produces but never implements, exactly spec.md §6's four input shapes
// and two output shapes.
package ports

import (
	"context"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/config"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// SchoolSource loads the school snapshot: classes, teachers, candidate
// teachers per (class, subject), and required hours.
type SchoolSource interface {
	LoadSchool(ctx context.Context) (*school.School, error)
}

// ScheduleSource loads an initial schedule snapshot -- pre-existing
// assignments (e.g. from a prior term) plus their locked flags.
type ScheduleSource interface {
	LoadInitialSchedule(ctx context.Context, sc *school.School) (*schedule.Schedule, error)
}

// FollowUpSource loads the follow-up overlay: absences, meetings, test
// periods, and fixed assignments layered onto the initial schedule.
type FollowUpSource interface {
	LoadFollowUp(ctx context.Context) (FollowUpOverlay, error)
}

// RulesSource loads the Rules configuration document.
type RulesSource interface {
	LoadRules(ctx context.Context) (config.Rules, error)
}

// TeacherAbsence is one follow-up-derived absence record. Periods == nil
// means the whole day.
type TeacherAbsence struct {
	Teacher domain.Teacher
	Day     domain.Weekday
	Periods []uint8
}

// Meeting is a follow-up-derived meeting that occupies its participants
// for one slot.
type Meeting struct {
	Slot         domain.TimeSlot
	Participants []domain.Teacher
}

// TestPeriod is a follow-up-derived exam slot: classes of ClassScope grade
// sit Subject at Slot instead of their usual timetable.
type TestPeriod struct {
	Slot       domain.TimeSlot
	Subject    domain.Subject
	ClassScope uint8 // grade
}

// FixedAssignment is a follow-up-derived override: class must hold Subject
// at Slot, and the cell is locked once applied.
type FixedAssignment struct {
	Slot    domain.TimeSlot
	Class   domain.ClassRef
	Subject domain.Subject
}

// FollowUpOverlay bundles every follow-up-derived adjustment the
// orchestrator reads before running the CSP engine (spec.md §4.8 steps
// 3-4). The orchestrator applies Absences, Meetings and FixedAssignments;
// it does not apply TestPeriods.
type FollowUpOverlay struct {
	Absences         []TeacherAbsence
	Meetings         []Meeting
	TestPeriods      []TestPeriod
	FixedAssignments []FixedAssignment
}

// ScheduleSink persists a finished schedule.
type ScheduleSink interface {
	WriteSchedule(ctx context.Context, s *schedule.Schedule) error
}

// ReportSink persists a validation report plus generation statistics.
type ReportSink interface {
	WriteReport(ctx context.Context, result constraint.ValidationResult, stats Stats) error
}

// Stats mirrors spec.md §6's output statistics shape; internal/generator
// populates one per run.
type Stats struct {
	AssignmentsPlaced     int
	TeacherConflicts      int
	EmptySlots            int
	HourDeficits          int
	HourSurpluses         int
	WorkloadExcursions    int
	WallTimeMillis        int64
	SolverBudgetExhausted bool
	FillerPassesRun       int
	FillerDuplicatesUsed  int
}
