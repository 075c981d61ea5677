package catalogue

import (
	"fmt"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// ExchangeJiritsuRule enforces I4: when an exchange cell holds 自立/日生/作業,
// the parent cell at the same slot holds 数 or 英.
type ExchangeJiritsuRule struct{}

func NewExchangeJiritsuRule() *ExchangeJiritsuRule { return &ExchangeJiritsuRule{} }

func (ExchangeJiritsuRule) Name() string                  { return "ExchangeJiritsuRule" }
func (ExchangeJiritsuRule) Priority() constraint.Priority { return constraint.Critical }

func (ExchangeJiritsuRule) ValidateFull(s *schedule.Schedule, sc *school.School) []constraint.Violation {
	var violations []constraint.Violation
	for _, pair := range domain.ExchangePairs() {
		for _, slot := range domain.AllTimeSlots() {
			exAssignment, ok := s.Get(pair.Exchange, slot)
			if !ok || !exAssignment.Subject.IsJiritsuLike() {
				continue
			}
			parentAssignment, ok := s.Get(pair.Parent, slot)
			if ok && isMathOrEnglish(parentAssignment.Subject) {
				continue
			}
			slotCopy, class := slot, pair.Exchange
			violations = append(violations, constraint.Violation{
				ConstraintName: "ExchangeJiritsuRule",
				Severity:       constraint.Critical,
				Slot:           &slotCopy,
				Class:          &class,
				Message:        fmt.Sprintf("parent class %s must hold 数 or 英 at %s while %s holds %s", pair.Parent, slot, pair.Exchange, exAssignment.Subject),
			})
		}
	}
	return violations
}

func (ExchangeJiritsuRule) ValidateDelta(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, mode constraint.Mode) (bool, string) {
	if parent, ok := a.Class.ParentClass(); ok {
		// assigning into an exchange cell
		if a.Subject.IsJiritsuLike() {
			parentAssignment, ok := s.Get(parent, slot)
			if !ok || !isMathOrEnglish(parentAssignment.Subject) {
				return false, fmt.Sprintf("parent class %s is not teaching 数/英 at %s", parent, slot)
			}
		}
		return true, ""
	}
	// assigning into a parent class: check every exchange child that holds a
	// jiritsu-like subject at this slot still has 数/英 satisfied.
	for _, pair := range domain.ExchangePairs() {
		if pair.Parent != a.Class {
			continue
		}
		exAssignment, ok := s.Get(pair.Exchange, slot)
		if !ok || !exAssignment.Subject.IsJiritsuLike() {
			continue
		}
		if !isMathOrEnglish(a.Subject) {
			return false, fmt.Sprintf("exchange class %s needs parent 数/英 at %s", pair.Exchange, slot)
		}
	}
	return true, ""
}

func isMathOrEnglish(s domain.Subject) bool {
	return s == domain.SubjectMath || s == domain.SubjectEnglish
}
