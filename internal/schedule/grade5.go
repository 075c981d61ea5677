package schedule

import "github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"

// Grade5View is a thin helper over a *Schedule restricted to the three
// Grade-5 classes (spec invariant I5: all three hold identical
// (subject, teacher) at every slot). Schedule itself never enforces I5 --
// only a writer going through this view, or through the Grade-5
// synchroniser (internal/sync) that uses it, can guarantee the three cells
// move together.
type Grade5View struct {
	sched   *Schedule
	classes []domain.ClassRef
}

// NewGrade5View builds a view over sched scoped to domain.Grade5Classes().
func NewGrade5View(sched *Schedule) *Grade5View {
	return &Grade5View{sched: sched, classes: domain.Grade5Classes()}
}

// Classes returns the three Grade-5 classes this view writes to.
func (v *Grade5View) Classes() []domain.ClassRef {
	out := make([]domain.ClassRef, len(v.classes))
	copy(out, v.classes)
	return out
}

// Get returns the slot's assignment as seen from the first Grade-5 class;
// callers are expected to have already confirmed the three cells agree
// (AssignAll is the only writer and always keeps them in lock-step).
func (v *Grade5View) Get(slot domain.TimeSlot) (domain.Assignment, bool) {
	return v.sched.Get(v.classes[0], slot)
}

// AnyLocked reports whether any of the three Grade-5 cells at slot is
// locked.
func (v *Grade5View) AnyLocked(slot domain.TimeSlot) bool {
	for _, c := range v.classes {
		if v.sched.IsLocked(c, slot) {
			return true
		}
	}
	return false
}

// AssignAll writes the same assignment (with each class's own ClassRef) to
// all three Grade-5 cells at slot, transactionally: if any of the three is
// locked, none are written and a CellLockedError is returned.
func (v *Grade5View) AssignAll(slot domain.TimeSlot, subject domain.Subject, teacher domain.Teacher) error {
	if v.AnyLocked(slot) {
		return domain.CellLockedError("Grade-5 joint slot has a locked cell: " + slot.String())
	}
	// Pre-flight pass already confirmed no lock; the actual writes below can
	// still only fail with CellLocked in a data race against a concurrent
	// locker, which spec.md's single-writer concurrency model (SPEC_FULL.md
	// §5) rules out within one generation job.
	for _, c := range v.classes {
		a := domain.Assignment{Class: c, Subject: subject, Teacher: teacher}
		if err := v.sched.Assign(c, slot, a); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAll clears all three Grade-5 cells at slot.
func (v *Grade5View) RemoveAll(slot domain.TimeSlot) error {
	if v.AnyLocked(slot) {
		return domain.CellLockedError("Grade-5 joint slot has a locked cell: " + slot.String())
	}
	for _, c := range v.classes {
		if err := v.sched.Remove(c, slot); err != nil {
			return err
		}
	}
	return nil
}

// LockAll locks all three Grade-5 cells at slot.
func (v *Grade5View) LockAll(slot domain.TimeSlot) {
	for _, c := range v.classes {
		v.sched.Lock(c, slot)
	}
}

// IsConsistent reports whether the three Grade-5 cells at slot currently
// agree (all empty, or all holding the same subject and teacher). Used by
// validation and by the synchroniser to detect drift introduced by a direct
// per-class write that bypassed this view.
func (v *Grade5View) IsConsistent(slot domain.TimeSlot) bool {
	var first domain.Assignment
	var firstOK bool
	for i, c := range v.classes {
		a, ok := v.sched.Get(c, slot)
		if i == 0 {
			first, firstOK = a, ok
			continue
		}
		if ok != firstOK {
			return false
		}
		if ok && (a.Subject != first.Subject || a.Teacher != first.Teacher) {
			return false
		}
	}
	return true
}
