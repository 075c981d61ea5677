package catalogue

import (
	"fmt"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/availability"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// TeacherAbsence enforces that no cell assigns a teacher at a slot they are
// marked absent for (whole day or specific period).
type TeacherAbsence struct {
	tracker *availability.Tracker
}

func NewTeacherAbsence(tracker *availability.Tracker) *TeacherAbsence {
	return &TeacherAbsence{tracker: tracker}
}

func (TeacherAbsence) Name() string                  { return "TeacherAbsence" }
func (TeacherAbsence) Priority() constraint.Priority { return constraint.Critical }

func (c *TeacherAbsence) ValidateFull(s *schedule.Schedule, sc *school.School) []constraint.Violation {
	var violations []constraint.Violation
	for _, cell := range s.IterAll() {
		if cell.Assignment.Teacher.IsZero() || sc.IsSentinelTeacher(cell.Assignment.Teacher) {
			continue
		}
		if !c.tracker.IsAbsent(cell.Assignment.Teacher, cell.Slot) {
			continue
		}
		slot, class := cell.Slot, cell.Class
		violations = append(violations, constraint.Violation{
			ConstraintName: "TeacherAbsence",
			Severity:       constraint.Critical,
			Slot:           &slot,
			Class:          &class,
			Teacher:        cell.Assignment.Teacher,
			Message:        fmt.Sprintf("%s is marked absent at %s", cell.Assignment.Teacher, slot),
		})
	}
	return violations
}

func (c *TeacherAbsence) ValidateDelta(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, mode constraint.Mode) (bool, string) {
	if a.Teacher.IsZero() || sc.IsSentinelTeacher(a.Teacher) {
		return true, ""
	}
	if c.tracker.IsAbsent(a.Teacher, slot) {
		return false, fmt.Sprintf("%s is marked absent at %s", a.Teacher, slot)
	}
	return true, ""
}
