package catalogue

import (
	"fmt"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// TestPeriodProtection enforces that during a grade's exam period (loaded
// from the follow-up data as school.School.TestSubject), no other subject
// is placed for that grade's classes at the same slot -- students sit the
// designated test subject and nothing else.
type TestPeriodProtection struct{}

func NewTestPeriodProtection() *TestPeriodProtection { return &TestPeriodProtection{} }

func (TestPeriodProtection) Name() string                  { return "TestPeriodProtection" }
func (TestPeriodProtection) Priority() constraint.Priority { return constraint.High }

func (TestPeriodProtection) ValidateFull(s *schedule.Schedule, sc *school.School) []constraint.Violation {
	var violations []constraint.Violation
	for _, cell := range s.IterAll() {
		testSubject, ok := sc.TestSubject(cell.Class.Grade, cell.Slot)
		if !ok || cell.Assignment.Subject == testSubject {
			continue
		}
		slot, class := cell.Slot, cell.Class
		violations = append(violations, constraint.Violation{
			ConstraintName: "TestPeriodProtection",
			Severity:       constraint.High,
			Slot:           &slot,
			Class:          &class,
			Message:        fmt.Sprintf("%s is under test (%s) but holds %s at %s", class, testSubject, cell.Assignment.Subject, slot),
		})
	}
	return violations
}

func (TestPeriodProtection) ValidateDelta(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, mode constraint.Mode) (bool, string) {
	testSubject, ok := sc.TestSubject(a.Class.Grade, slot)
	if !ok || a.Subject == testSubject {
		return true, ""
	}
	return false, fmt.Sprintf("%s is under test (%s) at %s", a.Class, testSubject, slot)
}
