package catalogue

import (
	"fmt"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// MondayPeriod6 enforces that Monday period 6 is always 欠 (absence/no
// class) for Grade 1-2 homerooms and their exchange classes -- a fixed
// school-wide slot the placement engine must never touch for those
// classes. Grade 3 and the Grade-5 classes are unaffected.
type MondayPeriod6 struct{}

func NewMondayPeriod6() *MondayPeriod6 { return &MondayPeriod6{} }

func (MondayPeriod6) Name() string                  { return "MondayPeriod6" }
func (MondayPeriod6) Priority() constraint.Priority { return constraint.High }

func affectedByMondayPeriod6(c domain.ClassRef) bool {
	if c.IsGrade5() {
		return false
	}
	if c.IsExchange() {
		parent, _ := c.ParentClass()
		return parent.Grade == 1 || parent.Grade == 2
	}
	return c.Grade == 1 || c.Grade == 2
}

var mondayPeriod6Slot = domain.TimeSlot{Day: domain.Monday, Period: 6}

func (MondayPeriod6) ValidateFull(s *schedule.Schedule, sc *school.School) []constraint.Violation {
	var violations []constraint.Violation
	for _, class := range sc.Classes() {
		if !affectedByMondayPeriod6(class) {
			continue
		}
		a, ok := s.Get(class, mondayPeriod6Slot)
		if !ok || a.Subject == domain.SubjectAbsence {
			continue
		}
		slot, c := mondayPeriod6Slot, class
		violations = append(violations, constraint.Violation{
			ConstraintName: "MondayPeriod6",
			Severity:       constraint.High,
			Slot:           &slot,
			Class:          &c,
			Message:        fmt.Sprintf("%s must be 欠 on Monday period 6, holds %s", class, a.Subject),
		})
	}
	return violations
}

func (MondayPeriod6) ValidateDelta(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, mode constraint.Mode) (bool, string) {
	if slot != mondayPeriod6Slot || !affectedByMondayPeriod6(a.Class) {
		return true, ""
	}
	if a.Subject == domain.SubjectAbsence {
		return true, ""
	}
	return false, fmt.Sprintf("%s must stay 欠 on Monday period 6", a.Class)
}
