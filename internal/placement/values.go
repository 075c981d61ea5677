package placement

import (
	"sort"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// Candidate is one (subject, teacher) value for a Variable.
type Candidate struct {
	Subject domain.Subject
	Teacher domain.Teacher
}

// generateCandidates builds the admissible (subject, teacher) domain for v:
// RegularSubjectsInPriorityOrder crossed with school.TeacherCandidates,
// restricted to subjects with a weekly deficit, value-ordered per spec.md
// §4.6 by one weighted score (10 per hour of deficit, +5 for a core
// subject, -0.1 per cell the teacher already holds, -100 when the subject
// would sit next to the same subject), and capped at limit entries (the
// per-variable bounded branching factor).
func generateCandidates(sched *schedule.Schedule, sc *school.School, v Variable, limit int) []Candidate {
	representative := v.Classes[0]

	type scored struct {
		c        Candidate
		priority float64
	}
	var ranked []scored

	for _, subject := range domain.RegularSubjectsInPriorityOrder {
		required := int(sc.RequiredHours(representative, subject))
		if required == 0 {
			continue
		}
		deficit := required - weeklyCount(sched, representative, subject)
		if deficit <= 0 {
			continue
		}

		teachers := sc.TeacherCandidates(representative, subject)
		for _, teacher := range teachers {
			load := weeklyTeacherLoad(sched, teacher)
			priority := float64(deficit) * 10
			if subject.IsCore() {
				priority += 5
			}
			priority -= float64(load) * 0.1
			if createsAdjacentDuplicate(sched, representative, v.Slot, subject) {
				priority -= 100
			}
			ranked = append(ranked, scored{c: Candidate{Subject: subject, Teacher: teacher}, priority: priority})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].priority > ranked[j].priority })

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]Candidate, len(ranked))
	for i, r := range ranked {
		out[i] = r.c
	}
	return out
}

func weeklyTeacherLoad(sched *schedule.Schedule, teacher domain.Teacher) int {
	n := 0
	for _, cell := range sched.IterAll() {
		if cell.Assignment.Teacher == teacher {
			n++
		}
	}
	return n
}

func createsAdjacentDuplicate(sched *schedule.Schedule, class domain.ClassRef, slot domain.TimeSlot, subject domain.Subject) bool {
	if slot.Period > domain.FirstPeriod {
		prev := domain.TimeSlot{Day: slot.Day, Period: slot.Period - 1}
		if a, ok := sched.Get(class, prev); ok && a.Subject == subject {
			return true
		}
	}
	if slot.Period < domain.LastPeriod {
		next := domain.TimeSlot{Day: slot.Day, Period: slot.Period + 1}
		if a, ok := sched.Get(class, next); ok && a.Subject == subject {
			return true
		}
	}
	return false
}

// canPlaceVariable checks a candidate against reg in Strict mode for every
// class the variable spans (1 for a regular cell, 3 for a Grade-5 cell).
func canPlaceVariable(sched *schedule.Schedule, sc *school.School, reg *constraint.Registry, v Variable, c Candidate) bool {
	for _, class := range v.Classes {
		a := domain.Assignment{Class: class, Subject: c.Subject, Teacher: c.Teacher}
		if ok, _ := reg.CanPlace(sched, sc, v.Slot, a, constraint.Strict); !ok {
			return false
		}
	}
	return true
}
