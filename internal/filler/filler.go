// Package filler is the empty-slot filler (spec component C9): a
// multi-pass Strict -> Balanced -> Relaxed -> UltraRelaxed -> Forced
// escalation that runs after the CSP engine to mop up any cells placement
// left empty.
//
// Grounded in the teacher's retry/backoff escalation
// (internal/application/executor/retry.go's RetryPolicy exponential-backoff
// attempt loop), generalised from "retry the same action with longer
// delay" to "retry the same empty cell with a looser constraint mode"; the
// Mode enum's total order plays the role of the teacher's
// JoinStrategy/ErrorStrategy closed enums.
package filler

import (
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
	syncgroup "github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/sync"
)

// Result summarizes one Filler.Run call across every pass it executed.
type Result struct {
	FillsBySubject map[domain.Subject]int
	PassesRun      []constraint.Mode
	DuplicatesUsed int
}

// Filler owns the synchronisers and constraint registry it needs to drive
// every pass; construct one per generation job.
type Filler struct {
	sched *schedule.Schedule
	sc    *school.School
	reg   *constraint.Registry
}

func NewFiller(sched *schedule.Schedule, sc *school.School, reg *constraint.Registry) *Filler {
	return &Filler{sched: sched, sc: sc, reg: reg}
}

// Run escalates through every Mode starting at Strict, stopping early once
// a non-Forced pass places zero new cells without escalating further is
// impossible by construction (spec.md §4.7 says a zero-fill pass escalates
// rather than stops) -- so Run always walks every mode up to and including
// Forced unless every cell is already filled first.
func (f *Filler) Run() Result {
	result := Result{FillsBySubject: make(map[domain.Subject]int)}

	mode := constraint.Strict
	for {
		result.PassesRun = append(result.PassesRun, mode)
		fills, duplicates := f.runPass(mode)
		for subject, n := range fills {
			result.FillsBySubject[subject] += n
		}
		result.DuplicatesUsed += duplicates

		if f.countEmpty() == 0 {
			return result
		}
		next, more := mode.Next()
		if !more {
			return result
		}
		mode = next
	}
}

func (f *Filler) runPass(mode constraint.Mode) (map[domain.Subject]int, int) {
	fills := make(map[domain.Subject]int)
	duplicates := 0

	exSync := syncgroup.NewExchangeSynchroniser(f.sched, f.sc, f.reg)
	_ = exSync.SyncAll()

	g5Sync := syncgroup.NewGrade5Synchroniser(f.sched, f.sc, f.reg)
	for _, slot := range domain.AllTimeSlots() {
		_ = g5Sync.FillJointEmpty(slot)
		_ = g5Sync.SyncSlot(slot)
	}

	for _, class := range f.sc.Classes() {
		if class.IsExchange() || class.IsGrade5() {
			continue
		}
		for _, slot := range domain.AllTimeSlots() {
			if _, ok := f.sched.Get(class, slot); ok {
				continue
			}
			if f.sched.IsLocked(class, slot) {
				continue
			}
			subject, teacher, isDuplicate, ok := f.chooseCandidate(class, slot, mode)
			if !ok {
				continue
			}
			a := domain.Assignment{Class: class, Subject: subject, Teacher: teacher}
			if okPlace, _ := f.reg.CanPlace(f.sched, f.sc, slot, a, mode); !okPlace {
				continue
			}
			if err := f.sched.Assign(class, slot, a); err != nil {
				continue
			}
			fills[subject]++
			if isDuplicate {
				duplicates++
			}
		}
	}

	return fills, duplicates
}

// chooseCandidate picks a (subject, teacher) for an empty cell, per
// spec.md §4.7 step 3: highest priority score = deficit + core bonus -
// teacher-load penalty, paired with the least-loaded available teacher for
// that subject. In Forced mode, if no candidate has positive shortage, it
// falls back to a single allowed daily duplicate per subject -- but only
// when every remaining candidate for this cell would otherwise stay
// empty, matching the documented Open-Question resolution (leave-empty is
// tried first; a duplicate is a last resort that must not be handed out
// just because it is legal).
type scoredCandidate struct {
	subject domain.Subject
	teacher domain.Teacher
	score   float64
}

func bestCandidate(items []scoredCandidate) (scoredCandidate, bool) {
	var best scoredCandidate
	found := false
	for _, it := range items {
		if !found || it.score > best.score {
			best = it
			found = true
		}
	}
	return best, found
}

func (f *Filler) chooseCandidate(class domain.ClassRef, slot domain.TimeSlot, mode constraint.Mode) (domain.Subject, domain.Teacher, bool, bool) {
	var withDeficit []scoredCandidate
	var withoutDeficit []scoredCandidate

	for _, subject := range domain.RegularSubjectsInPriorityOrder {
		required := int(f.sc.RequiredHours(class, subject))
		if required == 0 {
			continue
		}
		deficit := required - f.weeklyCount(class, subject)

		for _, teacher := range f.sc.TeacherCandidates(class, subject) {
			load := f.weeklyTeacherLoad(teacher)
			score := float64(deficit)*10 - float64(load)*0.1
			if subject.IsCore() {
				score += 5
			}
			entry := scoredCandidate{subject: subject, teacher: teacher, score: score}
			if deficit > 0 {
				withDeficit = append(withDeficit, entry)
			} else {
				withoutDeficit = append(withoutDeficit, entry)
			}
		}
	}

	if best, ok := bestCandidate(withDeficit); ok {
		return best.subject, best.teacher, false, true
	}

	if mode != constraint.Forced {
		return "", "", false, false
	}

	// Forced mode last resort: a daily duplicate, only if this cell would
	// otherwise stay empty and some subject still has a positive weekly
	// shortage for this class.
	if best, ok := bestCandidate(withoutDeficit); ok && f.classHasAnyShortage(class) {
		return best.subject, best.teacher, true, true
	}
	return "", "", false, false
}

func (f *Filler) classHasAnyShortage(class domain.ClassRef) bool {
	for _, subject := range domain.RegularSubjectsInPriorityOrder {
		required := int(f.sc.RequiredHours(class, subject))
		if required == 0 {
			continue
		}
		if required-f.weeklyCount(class, subject) > 0 {
			return true
		}
	}
	return false
}

func (f *Filler) weeklyCount(class domain.ClassRef, subject domain.Subject) int {
	n := 0
	for _, slot := range domain.AllTimeSlots() {
		a, ok := f.sched.Get(class, slot)
		if ok && a.Subject == subject {
			n++
		}
	}
	return n
}

func (f *Filler) weeklyTeacherLoad(teacher domain.Teacher) int {
	n := 0
	for _, cell := range f.sched.IterAll() {
		if cell.Assignment.Teacher == teacher {
			n++
		}
	}
	return n
}

func (f *Filler) countEmpty() int {
	n := 0
	for _, class := range f.sc.Classes() {
		for _, slot := range domain.AllTimeSlots() {
			if _, ok := f.sched.Get(class, slot); !ok {
				n++
			}
		}
	}
	return n
}
