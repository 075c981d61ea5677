package catalogue

import (
	"fmt"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// ConsecutivePeriods is a Low-priority rule that discourages the same
// regular subject appearing in two adjacent periods of the same day for
// the same class. It is scored (a soft nudge for the optimisation pass)
// everywhere, but mode_rules.go's AllowsDelta special-cases its name so
// the CSP search also enforces it as a hard delta check in Strict mode
// only -- spec.md §4.2 promotes it there to shrink Strict's domain before
// the looser modes relax it back to advisory.
type ConsecutivePeriods struct{}

func NewConsecutivePeriods() *ConsecutivePeriods { return &ConsecutivePeriods{} }

func (ConsecutivePeriods) Name() string                  { return "ConsecutivePeriods" }
func (ConsecutivePeriods) Priority() constraint.Priority { return constraint.Low }

func (ConsecutivePeriods) ValidateFull(s *schedule.Schedule, sc *school.School) []constraint.Violation {
	var violations []constraint.Violation
	for _, class := range sc.Classes() {
		for _, day := range domain.Weekdays {
			for period := domain.FirstPeriod; period < domain.LastPeriod; period++ {
				slot := domain.TimeSlot{Day: day, Period: period}
				next := domain.TimeSlot{Day: day, Period: period + 1}
				a, ok := s.Get(class, slot)
				if !ok || !a.Subject.IsRegular() {
					continue
				}
				b, ok := s.Get(class, next)
				if !ok || a.Subject != b.Subject {
					continue
				}
				slotCopy, c := slot, class
				violations = append(violations, constraint.Violation{
					ConstraintName: "ConsecutivePeriods",
					Severity:       constraint.Low,
					Slot:           &slotCopy,
					Class:          &c,
					Message:        fmt.Sprintf("%s repeats %s across %s and %s", class, a.Subject, slot, next),
				})
			}
		}
	}
	return violations
}

// ValidateDelta only ever runs when mode.AllowsDelta("ConsecutivePeriods")
// is true, i.e. Strict mode: it rejects placing a regular subject directly
// adjacent to the same subject already in the schedule.
func (ConsecutivePeriods) ValidateDelta(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, mode constraint.Mode) (bool, string) {
	if !a.Subject.IsRegular() {
		return true, ""
	}
	if slot.Period > domain.FirstPeriod {
		prev := domain.TimeSlot{Day: slot.Day, Period: slot.Period - 1}
		if pa, ok := s.Get(a.Class, prev); ok && pa.Subject == a.Subject {
			return false, fmt.Sprintf("%s already taught at %s", a.Subject, prev)
		}
	}
	if slot.Period < domain.LastPeriod {
		next := domain.TimeSlot{Day: slot.Day, Period: slot.Period + 1}
		if na, ok := s.Get(a.Class, next); ok && na.Subject == a.Subject {
			return false, fmt.Sprintf("%s already taught at %s", a.Subject, next)
		}
	}
	return true, ""
}

func (ConsecutivePeriods) Score(s *schedule.Schedule, sc *school.School) float64 {
	violations := ConsecutivePeriods{}.ValidateFull(s, sc)
	return float64(len(violations))
}
