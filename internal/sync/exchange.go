package sync

import (
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// ExchangeSynchroniser enforces I3/I4 across the six exchange/parent pairs:
// a non-special exchange cell mirrors its parent, and a 自立-like exchange
// cell requires its parent to be teaching 数 or 英 at the same slot.
// Grounded the same way as Grade5Synchroniser, generalized from a joint
// triple to a parent/child pair. A pair whose exchange class the school
// does not have is skipped.
type ExchangeSynchroniser struct {
	sched *schedule.Schedule
	sc    *school.School
	reg   *constraint.Registry
}

func NewExchangeSynchroniser(sched *schedule.Schedule, sc *school.School, reg *constraint.Registry) *ExchangeSynchroniser {
	return &ExchangeSynchroniser{sched: sched, sc: sc, reg: reg}
}

// SyncSlot walks every exchange/parent pair at slot, per spec.md §4.5.
func (e *ExchangeSynchroniser) SyncSlot(slot domain.TimeSlot) error {
	for _, pair := range domain.ExchangePairs() {
		if err := e.syncPair(pair.Exchange, pair.Parent, slot); err != nil {
			return err
		}
	}
	return nil
}

// SyncAll walks every slot of the week for every pair; a convenience used by
// the orchestrator and the filler's per-pass exchange-sync step.
func (e *ExchangeSynchroniser) SyncAll() error {
	for _, slot := range domain.AllTimeSlots() {
		if err := e.SyncSlot(slot); err != nil {
			return err
		}
	}
	return nil
}

func (e *ExchangeSynchroniser) syncPair(exchange, parent domain.ClassRef, slot domain.TimeSlot) error {
	if e.sc != nil && !e.sc.HasClass(exchange) {
		return nil
	}
	exchangeAssignment, exchangeOccupied := e.sched.Get(exchange, slot)

	if exchangeOccupied && exchangeAssignment.Subject.IsJiritsuLike() {
		return e.verifyJiritsuParent(parent, slot)
	}

	parentAssignment, parentOccupied := e.sched.Get(parent, slot)
	if !parentOccupied {
		return nil
	}
	if parentAssignment.Subject.IsFixed() || parentAssignment.Subject.IsJiritsuLike() {
		return nil
	}
	if e.sched.IsLocked(exchange, slot) {
		return nil
	}
	if exchangeOccupied && exchangeAssignment.Subject == parentAssignment.Subject && exchangeAssignment.Teacher == parentAssignment.Teacher {
		return nil
	}

	candidate := domain.Assignment{Class: exchange, Subject: parentAssignment.Subject, Teacher: parentAssignment.Teacher}
	if allowed, _ := e.reg.CanPlace(e.sched, e.sc, slot, candidate, constraint.Strict); !allowed {
		return nil
	}
	return e.sched.Assign(exchange, slot, candidate)
}

// verifyJiritsuParent enforces I4: when the exchange cell holds a
// jiritsu-like subject, the parent cell at the same slot must hold 数 or 英.
// If it doesn't, and isn't locked, attempt a swap within the parent class to
// bring 数 or 英 to that slot.
func (e *ExchangeSynchroniser) verifyJiritsuParent(parent domain.ClassRef, slot domain.TimeSlot) error {
	parentAssignment, parentOccupied := e.sched.Get(parent, slot)
	if parentOccupied && isMathOrEnglish(parentAssignment.Subject) {
		return nil
	}
	if e.sched.IsLocked(parent, slot) {
		return nil
	}
	return e.attemptSwapToMathOrEnglish(parent, slot)
}

func isMathOrEnglish(s domain.Subject) bool {
	return s == domain.SubjectMath || s == domain.SubjectEnglish
}

// attemptSwapToMathOrEnglish looks elsewhere in the parent class's week for
// an unlocked cell holding 数 or 英 and swaps it with slot, provided both
// resulting placements are delta-valid. Leaves the schedule untouched if no
// legal swap exists; the I4 violation then surfaces in full validation.
func (e *ExchangeSynchroniser) attemptSwapToMathOrEnglish(parent domain.ClassRef, slot domain.TimeSlot) error {
	currentAssignment, currentOccupied := e.sched.Get(parent, slot)

	for _, other := range domain.AllTimeSlots() {
		if other == slot || e.sched.IsLocked(parent, other) {
			continue
		}
		otherAssignment, ok := e.sched.Get(parent, other)
		if !ok || !isMathOrEnglish(otherAssignment.Subject) {
			continue
		}

		candidateAtSlot := domain.Assignment{Class: parent, Subject: otherAssignment.Subject, Teacher: otherAssignment.Teacher}
		if allowed, _ := e.reg.CanPlace(e.sched, e.sc, slot, candidateAtSlot, constraint.Strict); !allowed {
			continue
		}
		var candidateAtOther domain.Assignment
		if currentOccupied {
			candidateAtOther = domain.Assignment{Class: parent, Subject: currentAssignment.Subject, Teacher: currentAssignment.Teacher}
			if allowed, _ := e.reg.CanPlace(e.sched, e.sc, other, candidateAtOther, constraint.Strict); !allowed {
				continue
			}
		}

		if err := e.sched.Remove(parent, other); err != nil {
			continue
		}
		if currentOccupied {
			if err := e.sched.Remove(parent, slot); err != nil {
				continue
			}
		}
		if err := e.sched.Assign(parent, slot, candidateAtSlot); err != nil {
			return err
		}
		if currentOccupied {
			if err := e.sched.Assign(parent, other, candidateAtOther); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}
