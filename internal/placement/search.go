package placement

import (
	"context"
	"time"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// Config bounds the search. Zero-value Config is unusable; use
// DefaultConfig to start from spec.md §4.6/§9's defaults.
type Config struct {
	// MaxCandidatesPerVariable caps the branching factor at each variable.
	MaxCandidatesPerVariable int
	// MaxSteps caps the total number of candidate attempts across the
	// whole search (a global budget, not per-variable).
	MaxSteps int
	// Deadline is a wall-clock cutoff; the zero value means no deadline.
	Deadline time.Time
	// Starts is the number of independent multi-start attempts to run;
	// the best result under Stats.Less wins. Default 1 (no multi-start).
	Starts int
}

func DefaultConfig() Config {
	return Config{
		MaxCandidatesPerVariable: 8,
		MaxSteps:                 20000,
		Starts:                   1,
	}
}

// Stats summarizes one search attempt's outcome, for multi-start
// comparison and for the orchestrator's final report.
type Stats struct {
	EmptyCells         int
	HourShortageUnits  int
	WorkloadExcursions int
	StepsUsed          int
	Exhausted          bool
}

// Less reports whether s is a strictly better outcome than other, by
// spec.md §4.6 step 5's lexicographic objective: fewest empty cells,
// fewest hour-shortage units, fewest workload excursions.
func (s Stats) Less(other Stats) bool {
	if s.EmptyCells != other.EmptyCells {
		return s.EmptyCells < other.EmptyCells
	}
	if s.HourShortageUnits != other.HourShortageUnits {
		return s.HourShortageUnits < other.HourShortageUnits
	}
	return s.WorkloadExcursions < other.WorkloadExcursions
}

// Search runs the bounded greedy search over one Planner-ordered variable
// list; it does not backtrack.
type Search struct {
	planner *Planner
	reg     *constraint.Registry
	cfg     Config
}

func NewSearch(reg *constraint.Registry, cfg Config) *Search {
	return &Search{planner: NewPlanner(), reg: reg, cfg: cfg}
}

// Run mirrors executeWaves/executeNode's timeout-and-undo shape: it checks
// ctx and the wall-clock deadline between variable expansions (not inside a
// delta check, which never suspends per spec.md §5), and on budget
// exhaustion returns the best partial assignment reached so far rather
// than an error -- a placement failure for one variable is recoverable and
// the engine proceeds to the next, per spec.md §4.6's failure semantics.
func (s *Search) Run(ctx context.Context, sched *schedule.Schedule, sc *school.School) Stats {
	starts := s.cfg.Starts
	if starts < 1 {
		starts = 1
	}
	if starts == 1 {
		return s.runOnce(ctx, sched, sc)
	}

	var best Stats
	var bestTrial *schedule.Schedule
	for i := 0; i < starts; i++ {
		trial := schedule.New()
		copyLockedAndAssigned(sched, trial)
		stats := s.runOnce(ctx, trial, sc)
		if bestTrial == nil || stats.Less(best) {
			best = stats
			bestTrial = trial
		}
	}
	if bestTrial != nil {
		mergeNewAssignments(bestTrial, sched)
	}
	return best
}

// copyLockedAndAssigned seeds to with every cell already present in from.
// Used to give each multi-start trial its own Schedule instance with no
// shared mutable state, per spec.md §5.
func copyLockedAndAssigned(from, to *schedule.Schedule) {
	for _, cell := range from.IterAll() {
		_ = to.Assign(cell.Class, cell.Slot, cell.Assignment)
		if from.IsLocked(cell.Class, cell.Slot) {
			to.Lock(cell.Class, cell.Slot)
		}
	}
}

// mergeNewAssignments copies every cell of best not already present in
// sched into sched -- the winning trial's additions, written back onto the
// caller's original Schedule instance without copying its mutex by value.
func mergeNewAssignments(best, sched *schedule.Schedule) {
	for _, cell := range best.IterAll() {
		if _, ok := sched.Get(cell.Class, cell.Slot); ok {
			continue
		}
		_ = sched.Assign(cell.Class, cell.Slot, cell.Assignment)
	}
}

func (s *Search) runOnce(ctx context.Context, sched *schedule.Schedule, sc *school.School) Stats {
	vars := s.planner.Order(sched, sc, s.reg)
	steps := 0
	exhausted := false

	for _, v := range vars {
		if ctx.Err() != nil {
			exhausted = true
			break
		}
		if !s.cfg.Deadline.IsZero() && time.Now().After(s.cfg.Deadline) {
			exhausted = true
			break
		}
		if steps >= s.cfg.MaxSteps {
			exhausted = true
			break
		}

		limit := s.cfg.MaxCandidatesPerVariable
		candidates := generateCandidates(sched, sc, v, limit)

		placed := false
		for _, c := range candidates {
			steps++
			if steps >= s.cfg.MaxSteps {
				exhausted = true
				break
			}
			if !canPlaceVariable(sched, sc, s.reg, v, c) {
				continue
			}
			if commitVariable(sched, v, c) {
				placed = true
				break
			}
		}
		_ = placed // a placement failure for this variable is recoverable; move on regardless
	}

	return Stats{
		EmptyCells:        countEmpty(sched, sc),
		HourShortageUnits: countShortage(sched, sc),
		StepsUsed:         steps,
		Exhausted:         exhausted,
	}
}

// commitVariable writes c to every class in v.Classes transactionally:
// either all cells take the value or none do, matching spec.md §4.6 step 3
// ("tentatively assign; propagate to linked cells").
func commitVariable(sched *schedule.Schedule, v Variable, c Candidate) bool {
	assigned := make([]domain.ClassRef, 0, len(v.Classes))
	for _, class := range v.Classes {
		a := domain.Assignment{Class: class, Subject: c.Subject, Teacher: c.Teacher}
		if err := sched.Assign(class, v.Slot, a); err != nil {
			for _, done := range assigned {
				_ = sched.Remove(done, v.Slot)
			}
			return false
		}
		assigned = append(assigned, class)
	}
	return true
}

func countEmpty(sched *schedule.Schedule, sc *school.School) int {
	n := 0
	for _, class := range sc.Classes() {
		for _, slot := range domain.AllTimeSlots() {
			if _, ok := sched.Get(class, slot); !ok {
				n++
			}
		}
	}
	return n
}

func countShortage(sched *schedule.Schedule, sc *school.School) int {
	total := 0
	for _, class := range sc.Classes() {
		for _, subject := range domain.RegularSubjectsInPriorityOrder {
			required := int(sc.RequiredHours(class, subject))
			if required == 0 {
				continue
			}
			if d := required - weeklyCount(sched, class, subject); d > 0 {
				total += d
			}
		}
	}
	return total
}
