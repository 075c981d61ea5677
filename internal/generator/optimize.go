package generator

import (
	"context"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// optimizer runs spec.md §4.8 step 8: an optional local-search pass that
// proposes swapping two non-locked regular-subject cells of the same class
// and keeps the swap only if it strictly improves the registry's soft
// score (internal/constraint's workload/standard-hours scoring
// constraints) without ever breaking a Critical or High rule.
//
// Grounded in the teacher's wave-based parallel executor
// (internal/application/executor/engine.go's EnableParallel config and
// executeWaves loop), but adapted from "execute independent nodes
// concurrently" to "propose, validate, and accept one swap at a time" --
// a hill-climbing pass over a shared mutable Schedule cannot be
// parallelised the way independent DAG nodes can, per spec.md §5.
type optimizer struct {
	reg       *constraint.Registry
	maxPasses int
}

// Run attempts up to o.maxPasses swaps, stopping early once ctx is
// cancelled or a full pass finds no improving swap, and returns the
// number of swaps actually applied.
func (o *optimizer) Run(ctx context.Context, sched *schedule.Schedule, sc *school.School) int {
	applied := 0
	scoreBaseline := o.reg.Score(sched, sc)
	violationBaseline := o.reg.Validate(sched, sc).CountAtOrAbove(constraint.High)

	for pass := 0; pass < o.maxPasses; pass++ {
		select {
		case <-ctx.Done():
			return applied
		default:
		}

		improved, newScore := o.proposeOneSwap(sched, sc, scoreBaseline, violationBaseline)
		if !improved {
			break
		}
		scoreBaseline = newScore
		applied++
	}
	return applied
}

// proposeOneSwap scans every class's unlocked regular-subject cell pairs
// for a swap that strictly lowers the registry's score (lower is better,
// matching the catalogue's penalty-based ScoringConstraints) without
// raising the schedule-wide count of Critical/High violations above
// violationBaseline, applying and returning the first such swap found.
func (o *optimizer) proposeOneSwap(sched *schedule.Schedule, sc *school.School, scoreBaseline float64, violationBaseline int) (bool, float64) {
	for _, class := range sc.Classes() {
		cells := unlockedRegularCells(sched, class)
		for i := 0; i < len(cells); i++ {
			for j := i + 1; j < len(cells); j++ {
				a, b := cells[i], cells[j]
				aAssign, _ := sched.Get(class, a)
				bAssign, _ := sched.Get(class, b)
				if aAssign.Subject == bAssign.Subject {
					continue
				}
				if !o.trySwap(sched, sc, class, a, b, aAssign, bAssign, scoreBaseline, violationBaseline) {
					continue
				}
				return true, o.reg.Score(sched, sc)
			}
		}
	}
	return false, scoreBaseline
}

// trySwap attempts swapping the assignments at slots a and b for class,
// committing only if both resulting delta checks pass in Strict mode, the
// schedule-wide Critical/High violation count does not rise above
// violationBaseline, and the resulting score is strictly lower than
// scoreBaseline; it always restores the original assignments on any
// rejection so the caller can retry a different pair.
func (o *optimizer) trySwap(
	sched *schedule.Schedule,
	sc *school.School,
	class domain.ClassRef,
	a, b domain.TimeSlot,
	aAssign, bAssign domain.Assignment,
	scoreBaseline float64,
	violationBaseline int,
) bool {
	_ = sched.Remove(class, a)
	_ = sched.Remove(class, b)

	if ok, _ := o.reg.CanPlace(sched, sc, a, bAssign, constraint.Strict); !ok {
		_ = sched.Assign(class, a, aAssign)
		_ = sched.Assign(class, b, bAssign)
		return false
	}
	if ok, _ := o.reg.CanPlace(sched, sc, b, aAssign, constraint.Strict); !ok {
		_ = sched.Assign(class, a, aAssign)
		_ = sched.Assign(class, b, bAssign)
		return false
	}

	if err := sched.Assign(class, a, bAssign); err != nil {
		_ = sched.Assign(class, a, aAssign)
		_ = sched.Assign(class, b, bAssign)
		return false
	}
	if err := sched.Assign(class, b, aAssign); err != nil {
		_ = sched.Remove(class, a)
		_ = sched.Assign(class, a, aAssign)
		_ = sched.Assign(class, b, bAssign)
		return false
	}

	full := o.reg.Validate(sched, sc)
	if full.CountAtOrAbove(constraint.High) > violationBaseline || o.reg.Score(sched, sc) >= scoreBaseline {
		_ = sched.Remove(class, a)
		_ = sched.Remove(class, b)
		_ = sched.Assign(class, a, aAssign)
		_ = sched.Assign(class, b, bAssign)
		return false
	}
	return true
}

// unlockedRegularCells lists every slot where class holds a non-locked
// regular-subject assignment -- the only cells a swap may touch, since
// fixed/special subjects and locked cells are out of scope for
// optimisation per spec.md §4.8 step 2's locking rule.
func unlockedRegularCells(sched *schedule.Schedule, class domain.ClassRef) []domain.TimeSlot {
	var out []domain.TimeSlot
	for _, slot := range domain.AllTimeSlots() {
		if sched.IsLocked(class, slot) {
			continue
		}
		a, ok := sched.Get(class, slot)
		if !ok || !a.Subject.IsRegular() {
			continue
		}
		out = append(out, slot)
	}
	return out
}
