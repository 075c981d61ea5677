package catalogue

import (
	"fmt"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// TuesdayGymLimit is stricter than GymExclusive for Tuesday specifically:
// even a legal doubling group (Grade-5 joint, exchange/parent pair) may not
// use the gym more than once across all of Tuesday's six periods, since
// Tuesday's gym slot is reserved for a single whole-school PE rotation.
type TuesdayGymLimit struct{}

func NewTuesdayGymLimit() *TuesdayGymLimit { return &TuesdayGymLimit{} }

func (TuesdayGymLimit) Name() string                  { return "TuesdayGymLimit" }
func (TuesdayGymLimit) Priority() constraint.Priority { return constraint.High }

func (TuesdayGymLimit) ValidateFull(s *schedule.Schedule, sc *school.School) []constraint.Violation {
	var usedSlots []domain.TimeSlot
	for period := domain.FirstPeriod; period <= domain.LastPeriod; period++ {
		slot := domain.TimeSlot{Day: domain.Tuesday, Period: period}
		if len(s.GymOccupants(slot)) > 0 {
			usedSlots = append(usedSlots, slot)
		}
	}
	if len(usedSlots) <= 1 {
		return nil
	}
	var violations []constraint.Violation
	for _, slot := range usedSlots {
		slotCopy := slot
		violations = append(violations, constraint.Violation{
			ConstraintName: "TuesdayGymLimit",
			Severity:       constraint.High,
			Slot:           &slotCopy,
			Message:        fmt.Sprintf("gym used on Tuesday at more than one period (%s among %v)", slot, usedSlots),
		})
	}
	return violations
}

func (TuesdayGymLimit) ValidateDelta(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, mode constraint.Mode) (bool, string) {
	if slot.Day != domain.Tuesday || a.Subject != domain.SubjectPE {
		return true, ""
	}
	for period := domain.FirstPeriod; period <= domain.LastPeriod; period++ {
		if period == slot.Period {
			continue
		}
		other := domain.TimeSlot{Day: domain.Tuesday, Period: period}
		occupants := s.GymOccupants(other)
		if len(occupants) > 0 {
			return false, fmt.Sprintf("gym already used on Tuesday at %s", other)
		}
	}
	return true, ""
}
