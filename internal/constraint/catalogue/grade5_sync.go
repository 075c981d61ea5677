package catalogue

import (
	"fmt"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// Grade5Sync enforces I5: the three Grade-5 classes hold identical
// (subject, teacher) at every slot. The Grade-5 synchroniser
// (internal/sync) is what actually repairs drift; this constraint only
// detects it, for both full validation and for rejecting a direct
// per-class write that would newly break consistency.
type Grade5Sync struct{}

func NewGrade5Sync() *Grade5Sync { return &Grade5Sync{} }

func (Grade5Sync) Name() string                  { return "Grade5Sync" }
func (Grade5Sync) Priority() constraint.Priority { return constraint.Critical }

func (Grade5Sync) ValidateFull(s *schedule.Schedule, sc *school.School) []constraint.Violation {
	var violations []constraint.Violation
	view := schedule.NewGrade5View(s)
	for _, slot := range domain.AllTimeSlots() {
		if view.IsConsistent(slot) {
			continue
		}
		slotCopy := slot
		violations = append(violations, constraint.Violation{
			ConstraintName: "Grade5Sync",
			Severity:       constraint.Critical,
			Slot:           &slotCopy,
			Message:        fmt.Sprintf("Grade-5 classes disagree at %s", slot),
		})
	}
	return violations
}

// ValidateDelta rejects a direct per-class write that would make a
// currently-consistent Grade-5 slot inconsistent; writes that go through
// schedule.Grade5View.AssignAll never hit this path with a mismatched
// value in the first place.
func (g Grade5Sync) ValidateDelta(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, mode constraint.Mode) (bool, string) {
	if !a.Class.IsGrade5() {
		return true, ""
	}
	for _, c := range domain.Grade5Classes() {
		if c == a.Class {
			continue
		}
		other, ok := s.Get(c, slot)
		if !ok {
			continue
		}
		if other.Subject != a.Subject || other.Teacher != a.Teacher {
			return false, fmt.Sprintf("Grade-5 class %s already holds %s/%s at %s", c, other.Subject, other.Teacher, slot)
		}
	}
	return true, ""
}
