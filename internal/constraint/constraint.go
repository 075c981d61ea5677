package constraint

import (
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// Constraint is the minimal shape every rule in internal/constraint/
// catalogue implements: a name, a priority, and a full-schedule validator.
// Grounded in the teacher's NodeExecutor single-method-interface style
// (internal/application/executor/engine.go), split into two related
// interfaces below because full validation and a cell-scoped delta check
// have genuinely different signatures.
type Constraint interface {
	Name() string
	Priority() Priority
	ValidateFull(s *schedule.Schedule, sc *school.School) []Violation
}

// DeltaConstraint is a Constraint that can also judge a single candidate
// assignment before it is written, without re-validating the whole
// schedule. Delta checks must be sound with respect to full validation: if
// ValidateDelta accepts an assignment, the resulting full validation must
// not report a violation caused by that assignment alone.
type DeltaConstraint interface {
	Constraint
	ValidateDelta(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, mode Mode) (bool, string)
}

// ScoringConstraint is a Constraint that additionally contributes a soft
// penalty used by value ordering and local-search optimisation. Only
// Medium/Low constraints are expected to implement it; Critical/High rules
// are pass/fail, not scored.
type ScoringConstraint interface {
	Constraint
	Score(s *schedule.Schedule, sc *school.School) float64
}
