// Package catalogue holds the fifteen concrete constraints of spec.md
// §4.3, one family per file, each implementing constraint.Constraint and,
// where it has a cell-scoped check, constraint.DeltaConstraint.
package catalogue

import (
	"fmt"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// FixedSubjectLock enforces that a locked fixed-subject cell never changes.
// In practice Schedule.Assign/Remove already reject any write to a locked
// cell (I1), so this constraint's delta check can never itself be the
// reason an assignment is rejected through the normal Assign path; it
// exists so full validation still reports a violation if a cell that
// should have been locked (a fixed subject) was not, which is a data-load
// bug rather than a placement bug.
type FixedSubjectLock struct{}

func NewFixedSubjectLock() *FixedSubjectLock { return &FixedSubjectLock{} }

func (FixedSubjectLock) Name() string              { return "FixedSubjectLock" }
func (FixedSubjectLock) Priority() constraint.Priority { return constraint.Critical }

func (FixedSubjectLock) ValidateFull(s *schedule.Schedule, sc *school.School) []constraint.Violation {
	var violations []constraint.Violation
	for _, cell := range s.IterAll() {
		if !cell.Assignment.Subject.IsFixed() {
			continue
		}
		if s.IsLocked(cell.Class, cell.Slot) {
			continue
		}
		slot := cell.Slot
		class := cell.Class
		violations = append(violations, constraint.Violation{
			ConstraintName: "FixedSubjectLock",
			Severity:       constraint.Critical,
			Slot:           &slot,
			Class:          &class,
			Message:        fmt.Sprintf("fixed subject %s at %s %s is not locked", cell.Assignment.Subject, class, slot),
		})
	}
	return violations
}

func (f FixedSubjectLock) ValidateDelta(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, mode constraint.Mode) (bool, string) {
	if !a.Subject.IsFixed() {
		return true, ""
	}
	if s.IsLocked(a.Class, slot) {
		return false, "cannot assign a fixed subject over a locked cell"
	}
	return true, ""
}
