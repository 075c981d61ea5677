package sync

import (
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// Grade5Synchroniser keeps the three Grade-5 classes' cells either all
// empty or all holding the same (subject, teacher) -- invariant I5.
// Grounded in the teacher's domain.Workflow aggregate-invariant enforcement
// (internal/domain/workflow.go's UseNode/UseEdge), generalized from "one
// aggregate enforcing structural invariants across child entities" to "one
// synchroniser enforcing a cross-class invariant across Schedule cells".
type Grade5Synchroniser struct {
	sched *schedule.Schedule
	sc    *school.School
	reg   *constraint.Registry
}

func NewGrade5Synchroniser(sched *schedule.Schedule, sc *school.School, reg *constraint.Registry) *Grade5Synchroniser {
	return &Grade5Synchroniser{sched: sched, sc: sc, reg: reg}
}

// SyncSlot brings the three Grade-5 cells at slot into agreement, per
// spec.md §4.5: picks a subject (priority: a locked cell's subject; else the
// most common among unlocked; else a shortage-driven choice) and the single
// joint-teaching teacher for that subject, runs delta checks on every
// unlocked cell, then commits all of them or none. Idempotent: a call on an
// already-consistent slot is a no-op.
func (g *Grade5Synchroniser) SyncSlot(slot domain.TimeSlot) error {
	view := schedule.NewGrade5View(g.sched)
	classes := view.Classes()

	if view.IsConsistent(slot) {
		return nil
	}

	subject, ok := g.chooseSubject(classes, slot)
	if !ok {
		return nil
	}
	teacher, _ := g.sc.JointTeacher(subject)

	for _, c := range classes {
		if g.sched.IsLocked(c, slot) {
			continue
		}
		a := domain.Assignment{Class: c, Subject: subject, Teacher: teacher}
		if allowed, _ := g.reg.CanPlace(g.sched, g.sc, slot, a, constraint.Strict); !allowed {
			return nil
		}
	}
	for _, c := range classes {
		if g.sched.IsLocked(c, slot) {
			continue
		}
		a := domain.Assignment{Class: c, Subject: subject, Teacher: teacher}
		if err := g.sched.Assign(c, slot, a); err != nil {
			return err
		}
	}
	return nil
}

// FillJointEmpty handles the case where all three Grade-5 cells at slot are
// empty: chooses the subject maximising combined hour shortage across the
// three classes, subject to delta validity, and commits all three
// transactionally.
func (g *Grade5Synchroniser) FillJointEmpty(slot domain.TimeSlot) error {
	view := schedule.NewGrade5View(g.sched)
	classes := view.Classes()
	for _, c := range classes {
		if _, ok := g.sched.Get(c, slot); ok {
			return nil
		}
	}

	subject, ok := g.shortageDrivenSubject(classes)
	if !ok {
		return nil
	}
	teacher, _ := g.sc.JointTeacher(subject)

	for _, c := range classes {
		a := domain.Assignment{Class: c, Subject: subject, Teacher: teacher}
		if allowed, _ := g.reg.CanPlace(g.sched, g.sc, slot, a, constraint.Strict); !allowed {
			return nil
		}
	}
	return view.AssignAll(slot, subject, teacher)
}

func (g *Grade5Synchroniser) chooseSubject(classes []domain.ClassRef, slot domain.TimeSlot) (domain.Subject, bool) {
	for _, c := range classes {
		if !g.sched.IsLocked(c, slot) {
			continue
		}
		if a, ok := g.sched.Get(c, slot); ok {
			return a.Subject, true
		}
	}

	counts := make(map[domain.Subject]int)
	for _, c := range classes {
		if g.sched.IsLocked(c, slot) {
			continue
		}
		if a, ok := g.sched.Get(c, slot); ok {
			counts[a.Subject]++
		}
	}
	var best domain.Subject
	bestCount := 0
	for subject, count := range counts {
		if count > bestCount {
			bestCount, best = count, subject
		}
	}
	if bestCount > 0 {
		return best, true
	}

	return g.shortageDrivenSubject(classes)
}

// shortageDrivenSubject picks the regular subject with the greatest combined
// remaining weekly shortage across classes.
func (g *Grade5Synchroniser) shortageDrivenSubject(classes []domain.ClassRef) (domain.Subject, bool) {
	var best domain.Subject
	bestShortage := 0
	for _, subject := range domain.RegularSubjectsInPriorityOrder {
		total := 0
		for _, c := range classes {
			required := int(g.sc.RequiredHours(c, subject))
			placed := g.weeklyCount(c, subject)
			if shortage := required - placed; shortage > 0 {
				total += shortage
			}
		}
		if total > bestShortage {
			bestShortage, best = total, subject
		}
	}
	if bestShortage == 0 {
		return "", false
	}
	return best, true
}

func (g *Grade5Synchroniser) weeklyCount(class domain.ClassRef, subject domain.Subject) int {
	count := 0
	for _, cell := range g.sched.IterAll() {
		if cell.Class == class && cell.Assignment.Subject == subject {
			count++
		}
	}
	return count
}
