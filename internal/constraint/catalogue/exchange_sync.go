package catalogue

import (
	"fmt"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// ExchangeSync enforces I3: for every exchange class cell whose subject is
// not 自立/日生/作業, the parent-class cell at the same slot has the same
// subject. Unlike the Critical rules above, this is High priority -- it is
// expected to hold by the end of placement, not at every intermediate
// state, since the exchange synchroniser (internal/sync) runs after the
// parent class is placed for a given slot.
type ExchangeSync struct{}

func NewExchangeSync() *ExchangeSync { return &ExchangeSync{} }

func (ExchangeSync) Name() string                  { return "ExchangeSync" }
func (ExchangeSync) Priority() constraint.Priority { return constraint.High }

func (ExchangeSync) ValidateFull(s *schedule.Schedule, sc *school.School) []constraint.Violation {
	var violations []constraint.Violation
	for _, pair := range domain.ExchangePairs() {
		for _, slot := range domain.AllTimeSlots() {
			exAssignment, ok := s.Get(pair.Exchange, slot)
			if !ok || exAssignment.Subject.IsJiritsuLike() {
				continue
			}
			parentAssignment, ok := s.Get(pair.Parent, slot)
			if ok && parentAssignment.Subject == exAssignment.Subject {
				continue
			}
			slotCopy, class := slot, pair.Exchange
			violations = append(violations, constraint.Violation{
				ConstraintName: "ExchangeSync",
				Severity:       constraint.High,
				Slot:           &slotCopy,
				Class:          &class,
				Message:        fmt.Sprintf("%s (%s) does not match parent %s at %s", pair.Exchange, exAssignment.Subject, pair.Parent, slot),
			})
		}
	}
	return violations
}

func (ExchangeSync) ValidateDelta(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, mode constraint.Mode) (bool, string) {
	parent, isExchange := a.Class.ParentClass()
	if !isExchange || a.Subject.IsJiritsuLike() {
		return true, ""
	}
	parentAssignment, ok := s.Get(parent, slot)
	if !ok {
		return true, "" // nothing to mismatch against yet; synchroniser will catch up later
	}
	if parentAssignment.Subject != a.Subject {
		return false, fmt.Sprintf("must match parent class %s subject %s at %s", parent, parentAssignment.Subject, slot)
	}
	return true, ""
}
