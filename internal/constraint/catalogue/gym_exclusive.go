package catalogue

import (
	"fmt"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
	syncgroup "github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/sync"
)

// GymExclusive enforces that the single gym is occupied by at most one
// class's 保 period at a time, except the two legal doubling groups (a
// Grade-5 joint class, or an exchange/parent pair -- both of which share
// one physical group in the gym even though they're separate classes on
// the timetable).
type GymExclusive struct{}

func NewGymExclusive() *GymExclusive { return &GymExclusive{} }

func (GymExclusive) Name() string                  { return "GymExclusive" }
func (GymExclusive) Priority() constraint.Priority { return constraint.High }

func (GymExclusive) ValidateFull(s *schedule.Schedule, sc *school.School) []constraint.Violation {
	var violations []constraint.Violation
	for _, slot := range domain.AllTimeSlots() {
		occupants := s.GymOccupants(slot)
		if len(occupants) <= 1 || syncgroup.IsLegalDoubling(occupants) {
			continue
		}
		slotCopy := slot
		violations = append(violations, constraint.Violation{
			ConstraintName: "GymExclusive",
			Severity:       constraint.High,
			Slot:           &slotCopy,
			Message:        fmt.Sprintf("gym double-booked by %v at %s", occupants, slot),
		})
	}
	return violations
}

func (GymExclusive) ValidateDelta(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, mode constraint.Mode) (bool, string) {
	if a.Subject != domain.SubjectPE {
		return true, ""
	}
	occupants := append(append([]domain.ClassRef(nil), s.GymOccupants(slot)...), a.Class)
	if syncgroup.IsLegalDoubling(occupants) {
		return true, ""
	}
	return false, fmt.Sprintf("gym already occupied at %s", slot)
}
