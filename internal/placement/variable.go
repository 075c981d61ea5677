// Package placement is the CSP/placement engine (spec component C8):
// variable ordering, value ordering, and a bounded greedy search over the
// unlocked cells of an internal/schedule.Schedule. Each variable takes the
// first candidate, in value order, that passes the Strict delta checks; a
// placed variable is never undone to revisit an earlier choice, and no
// forward checking prunes later variables' domains.
//
// Grounded in the teacher's WorkflowEngine/ExecutionPlanner/WorkflowGraph
// (internal/application/executor/engine.go, planner.go, graph.go): the
// teacher plans a DAG into topologically-ordered waves and executes node by
// node with retry/backoff; here the "plan" is the variable ordering and
// "execution" of each variable is a loop over its candidate values that
// stops at the first admissible one.
package placement

import (
	"sort"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// Variable is one unit of placement work: either a single regular class's
// empty unlocked cell, or (when Classes has all three members) the
// composite Grade-5 joint cell. Exchange-class cells never appear here --
// they are deferred to internal/sync's ExchangeSynchroniser, per spec.md
// §4.6.
type Variable struct {
	Classes []domain.ClassRef
	Slot    domain.TimeSlot
}

func (v Variable) IsGrade5() bool { return len(v.Classes) == 3 }

// Planner produces the ordered work list the Search walks.
type Planner struct{}

func NewPlanner() *Planner { return &Planner{} }

// Order mirrors ExecutionPlanner.CreatePlan: largest-remaining-shortage
// first, most-constrained-slot (fewest feasible values) as the tie-break.
// Grade-5 cells are folded into one composite Variable per slot; exchange
// cells are excluded entirely.
func (p *Planner) Order(sched *schedule.Schedule, sc *school.School, reg *constraint.Registry) []Variable {
	var vars []Variable

	for _, slot := range domain.AllTimeSlots() {
		if grade5SlotOpen(sched, slot) {
			vars = append(vars, Variable{Classes: domain.Grade5Classes(), Slot: slot})
		}
	}

	for _, class := range sc.Classes() {
		if class.IsGrade5() || class.IsExchange() {
			continue
		}
		for _, slot := range domain.AllTimeSlots() {
			if _, ok := sched.Get(class, slot); ok {
				continue
			}
			if sched.IsLocked(class, slot) {
				continue
			}
			vars = append(vars, Variable{Classes: []domain.ClassRef{class}, Slot: slot})
		}
	}

	type scored struct {
		v        Variable
		shortage int
		feasible int
	}
	ranked := make([]scored, 0, len(vars))
	for _, v := range vars {
		ranked = append(ranked, scored{
			v:        v,
			shortage: maxShortage(sched, sc, v.Classes[0]),
			feasible: len(generateCandidates(sched, sc, v, 1<<30)),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].shortage != ranked[j].shortage {
			return ranked[i].shortage > ranked[j].shortage
		}
		return ranked[i].feasible < ranked[j].feasible
	})

	out := make([]Variable, len(ranked))
	for i, r := range ranked {
		out[i] = r.v
	}
	return out
}

func grade5SlotOpen(sched *schedule.Schedule, slot domain.TimeSlot) bool {
	for _, c := range domain.Grade5Classes() {
		if _, ok := sched.Get(c, slot); ok {
			continue
		}
		if sched.IsLocked(c, slot) {
			continue
		}
		return true
	}
	return false
}

// weeklyCount counts how many times subject already appears for class
// across the whole week.
func weeklyCount(sched *schedule.Schedule, class domain.ClassRef, subject domain.Subject) int {
	n := 0
	for _, slot := range domain.AllTimeSlots() {
		a, ok := sched.Get(class, slot)
		if ok && a.Subject == subject {
			n++
		}
	}
	return n
}

func maxShortage(sched *schedule.Schedule, sc *school.School, class domain.ClassRef) int {
	best := 0
	for _, subject := range domain.RegularSubjectsInPriorityOrder {
		required := int(sc.RequiredHours(class, subject))
		if required == 0 {
			continue
		}
		shortage := required - weeklyCount(sched, class, subject)
		if shortage > best {
			best = shortage
		}
	}
	return best
}
