package catalogue

import (
	"fmt"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/availability"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// PartTimeWindow enforces that a part-time teacher only ever appears in
// their configured (day, period) windows (availability.Tracker.IsAvailable
// already folds absence/meetings into the same check, but this constraint
// is scoped to only the availability-window aspect so its violation
// message is specific).
type PartTimeWindow struct {
	tracker *availability.Tracker
}

func NewPartTimeWindow(tracker *availability.Tracker) *PartTimeWindow {
	return &PartTimeWindow{tracker: tracker}
}

func (PartTimeWindow) Name() string                  { return "PartTimeWindow" }
func (PartTimeWindow) Priority() constraint.Priority { return constraint.Critical }

func (c *PartTimeWindow) ValidateFull(s *schedule.Schedule, sc *school.School) []constraint.Violation {
	var violations []constraint.Violation
	for _, cell := range s.IterAll() {
		if cell.Assignment.Teacher.IsZero() || sc.IsSentinelTeacher(cell.Assignment.Teacher) {
			continue
		}
		if c.tracker.IsAvailable(cell.Assignment.Teacher, cell.Slot) {
			continue
		}
		if c.tracker.IsAbsent(cell.Assignment.Teacher, cell.Slot) {
			continue // TeacherAbsence already reports this cell
		}
		slot, class := cell.Slot, cell.Class
		violations = append(violations, constraint.Violation{
			ConstraintName: "PartTimeWindow",
			Severity:       constraint.Critical,
			Slot:           &slot,
			Class:          &class,
			Teacher:        cell.Assignment.Teacher,
			Message:        fmt.Sprintf("%s is outside their configured window at %s", cell.Assignment.Teacher, slot),
		})
	}
	return violations
}

func (c *PartTimeWindow) ValidateDelta(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, mode constraint.Mode) (bool, string) {
	if a.Teacher.IsZero() || sc.IsSentinelTeacher(a.Teacher) {
		return true, ""
	}
	if c.tracker.IsAvailable(a.Teacher, slot) {
		return true, ""
	}
	return false, fmt.Sprintf("%s is outside their configured window at %s", a.Teacher, slot)
}
