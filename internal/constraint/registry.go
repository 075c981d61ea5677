package constraint

import (
	"sync"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// Registry is a priority-partitioned list of constraints. Grounded directly
// in the teacher's node.Registry (internal/node/registry.go) -- same
// Register / mu sync.RWMutex / ListAll shape, generalized to bucket by
// Priority the way the teacher buckets by name.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Constraint
	byTier  map[Priority][]Constraint
	ordered []Constraint
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Constraint),
		byTier: make(map[Priority][]Constraint),
	}
}

// Register adds a constraint. Registering a name twice is an error: a
// duplicate rule usually means a wiring bug in the orchestrator's setup
// step, not a legitimate configuration.
func (r *Registry) Register(c Constraint) error {
	if c == nil {
		return domain.InvalidInputError("constraint is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	name := c.Name()
	if name == "" {
		return domain.InvalidInputError("constraint name cannot be empty")
	}
	if _, exists := r.byName[name]; exists {
		return domain.InvalidInputError("constraint already registered: " + name)
	}
	r.byName[name] = c
	r.byTier[c.Priority()] = append(r.byTier[c.Priority()], c)
	r.ordered = append(r.ordered, c)
	return nil
}

// ListAll returns every registered constraint, in registration order.
func (r *Registry) ListAll() []Constraint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Constraint, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ByPriority returns the constraints registered at exactly the given tier.
func (r *Registry) ByPriority(p Priority) []Constraint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.byTier[p]
	out := make([]Constraint, len(list))
	copy(out, list)
	return out
}

// Validate runs every registered constraint's ValidateFull and aggregates
// the result. Used for reporting and for soft-constraint scoring inputs.
func (r *Registry) Validate(s *schedule.Schedule, sc *school.School) ValidationResult {
	r.mu.RLock()
	all := make([]Constraint, len(r.ordered))
	copy(all, r.ordered)
	r.mu.RUnlock()

	var result ValidationResult
	for _, c := range all {
		result.Violations = append(result.Violations, c.ValidateFull(s, sc)...)
	}
	return result
}

// CanPlace runs the constraints mode.AllowsDelta selects (every Critical
// rule plus a mode-dependent subset of the others, except in Forced mode,
// which runs only TeacherConflict and GymExclusive), restricted to
// DeltaConstraints (Constraints without a delta check only contribute to
// full validation/scoring and are skipped here). Returns the first
// rejection encountered; constraints are consulted tier by tier, Critical
// before High, so a Critical rejection is always reported over a High one.
func (r *Registry) CanPlace(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, mode Mode) (bool, string) {
	r.mu.RLock()
	var all []Constraint
	for _, p := range []Priority{Critical, High, Medium, Low} {
		all = append(all, r.byTier[p]...)
	}
	r.mu.RUnlock()

	for _, c := range all {
		if !mode.AllowsDelta(c.Priority(), c.Name()) {
			continue
		}
		dc, ok := c.(DeltaConstraint)
		if !ok {
			continue
		}
		if ok2, reason := dc.ValidateDelta(s, sc, slot, a, mode); !ok2 {
			return false, reason
		}
	}
	return true, ""
}

// Score sums weighted penalties from every registered ScoringConstraint.
// Used by the orchestrator's local-search optimisation pass (§4.8); the
// placement engine's value ordering (§4.6) does not call it.
func (r *Registry) Score(s *schedule.Schedule, sc *school.School) float64 {
	r.mu.RLock()
	all := make([]Constraint, len(r.ordered))
	copy(all, r.ordered)
	r.mu.RUnlock()

	var total float64
	for _, c := range all {
		if scoring, ok := c.(ScoringConstraint); ok {
			total += scoring.Score(s, sc)
		}
	}
	return total
}
