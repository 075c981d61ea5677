package catalogue

import (
	"fmt"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/sync"
)

// TeacherConflict enforces that at any slot, a non-sentinel teacher appears
// in at most one class -- except a Grade-5 joint-teaching group or an
// exchange/parent pair, which legally share a teacher (spec.md §4.3's
// closing paragraph: "consult these rules before flagging a violation").
type TeacherConflict struct{}

func NewTeacherConflict() *TeacherConflict { return &TeacherConflict{} }

func (TeacherConflict) Name() string                  { return "TeacherConflict" }
func (TeacherConflict) Priority() constraint.Priority { return constraint.Critical }

func (TeacherConflict) ValidateFull(s *schedule.Schedule, sc *school.School) []constraint.Violation {
	var violations []constraint.Violation
	for _, slot := range domain.AllTimeSlots() {
		for teacher, classes := range s.TeachersAt(slot) {
			if sc.IsSentinelTeacher(teacher) {
				continue
			}
			if sync.IsLegalDoubling(classes) {
				continue
			}
			slotCopy := slot
			violations = append(violations, constraint.Violation{
				ConstraintName: "TeacherConflict",
				Severity:       constraint.Critical,
				Slot:           &slotCopy,
				Teacher:        teacher,
				Message:        fmt.Sprintf("teacher %s double-booked across %d classes at %s", teacher, len(classes), slot),
			})
		}
	}
	return violations
}

func (TeacherConflict) ValidateDelta(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, mode constraint.Mode) (bool, string) {
	if a.Teacher.IsZero() || sc.IsSentinelTeacher(a.Teacher) {
		return true, ""
	}
	occupants := s.TeachersAt(slot)[a.Teacher]
	classes := make([]domain.ClassRef, 0, len(occupants)+1)
	seen := map[domain.ClassRef]bool{a.Class: true}
	classes = append(classes, a.Class)
	for _, c := range occupants {
		if !seen[c] {
			seen[c] = true
			classes = append(classes, c)
		}
	}
	if sync.IsLegalDoubling(classes) {
		return true, ""
	}
	return false, fmt.Sprintf("teacher %s already teaches another class at %s", a.Teacher, slot)
}
