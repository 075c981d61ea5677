package constraint

import (
	"testing"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConstraint is a minimal test double implementing Constraint, plus
// ValidateDelta/Score directly, so the registry's dispatch logic can be
// exercised without pulling in the real catalogue. noDelta/noScoring gate
// whether a given instance is handed to the registry through a wrapper type
// that hides the extra interface, mirroring catalogue constraints that
// genuinely don't implement DeltaConstraint/ScoringConstraint.
type fakeConstraint struct {
	name      string
	priority  Priority
	allow     bool
	reason    string
	score     float64
	noDelta   bool
	noScoring bool
}

func (f *fakeConstraint) Name() string       { return f.name }
func (f *fakeConstraint) Priority() Priority { return f.priority }
func (f *fakeConstraint) ValidateFull(*schedule.Schedule, *school.School) []Violation {
	if f.allow {
		return nil
	}
	return []Violation{{ConstraintName: f.name, Severity: f.priority, Message: f.reason}}
}
func (f *fakeConstraint) ValidateDelta(*schedule.Schedule, *school.School, domain.TimeSlot, domain.Assignment, Mode) (bool, string) {
	return f.allow, f.reason
}
func (f *fakeConstraint) Score(*schedule.Schedule, *school.School) float64 { return f.score }

// fullOnly exposes only the Constraint methods, hiding ValidateDelta/Score
// even though the embedded *fakeConstraint has them.
type fullOnly struct{ c *fakeConstraint }

func (w fullOnly) Name() string       { return w.c.Name() }
func (w fullOnly) Priority() Priority { return w.c.Priority() }
func (w fullOnly) ValidateFull(s *schedule.Schedule, sc *school.School) []Violation {
	return w.c.ValidateFull(s, sc)
}

// deltaOnly exposes Constraint + DeltaConstraint but not ScoringConstraint.
type deltaOnly struct{ c *fakeConstraint }

func (w deltaOnly) Name() string       { return w.c.Name() }
func (w deltaOnly) Priority() Priority { return w.c.Priority() }
func (w deltaOnly) ValidateFull(s *schedule.Schedule, sc *school.School) []Violation {
	return w.c.ValidateFull(s, sc)
}
func (w deltaOnly) ValidateDelta(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, m Mode) (bool, string) {
	return w.c.ValidateDelta(s, sc, slot, a, m)
}

// scoringOnly exposes Constraint + ScoringConstraint but not DeltaConstraint.
type scoringOnly struct{ c *fakeConstraint }

func (w scoringOnly) Name() string       { return w.c.Name() }
func (w scoringOnly) Priority() Priority { return w.c.Priority() }
func (w scoringOnly) ValidateFull(s *schedule.Schedule, sc *school.School) []Violation {
	return w.c.ValidateFull(s, sc)
}
func (w scoringOnly) Score(s *schedule.Schedule, sc *school.School) float64 { return w.c.Score(s, sc) }

func newConstraint(f *fakeConstraint) Constraint {
	switch {
	case !f.noDelta && !f.noScoring:
		return f
	case !f.noDelta:
		return deltaOnly{f}
	case !f.noScoring:
		return scoringOnly{f}
	default:
		return fullOnly{f}
	}
}

func TestRegistryRegisterRejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	c := newConstraint(&fakeConstraint{name: "X", priority: Critical, allow: true})
	require.NoError(t, r.Register(c))
	err := r.Register(c)
	require.Error(t, err)
}

func TestRegistryValidateAggregatesViolations(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newConstraint(&fakeConstraint{name: "A", priority: Critical, allow: false, reason: "bad A", noDelta: true, noScoring: true})))
	require.NoError(t, r.Register(newConstraint(&fakeConstraint{name: "B", priority: High, allow: true, noDelta: true, noScoring: true})))

	result := r.Validate(schedule.New(), nil)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "A", result.Violations[0].ConstraintName)
	assert.False(t, result.IsValid())
}

func TestRegistryCanPlaceCriticalRunsExceptInForced(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newConstraint(&fakeConstraint{name: "FixedSubjectLock", priority: Critical, allow: false, reason: "nope", noScoring: true})))

	ok, reason := r.CanPlace(schedule.New(), nil, domain.TimeSlot{}, domain.Assignment{}, Strict)
	assert.False(t, ok)
	assert.Equal(t, "nope", reason)

	ok, _ = r.CanPlace(schedule.New(), nil, domain.TimeSlot{}, domain.Assignment{}, Forced)
	assert.True(t, ok, "Forced mode enforces only TeacherConflict and GymExclusive, not other Critical rules")
}

func TestRegistryCanPlaceForcedOnlyEnforcesTwoRules(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newConstraint(&fakeConstraint{name: "TeacherConflict", priority: Critical, allow: false, reason: "conflict", noScoring: true})))

	ok, reason := r.CanPlace(schedule.New(), nil, domain.TimeSlot{}, domain.Assignment{}, Forced)
	assert.False(t, ok)
	assert.Equal(t, "conflict", reason)
}

func TestRegistryCanPlaceHighRespectsMode(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newConstraint(&fakeConstraint{name: "ConsecutivePeriods", priority: High, allow: false, reason: "adjacent dup", noScoring: true})))

	ok, _ := r.CanPlace(schedule.New(), nil, domain.TimeSlot{}, domain.Assignment{}, Strict)
	assert.False(t, ok, "Strict mode must enforce ConsecutivePeriods")

	ok, _ = r.CanPlace(schedule.New(), nil, domain.TimeSlot{}, domain.Assignment{}, Balanced)
	assert.True(t, ok, "Balanced mode drops ConsecutivePeriods")
}

func TestRegistryCanPlaceRelaxedKeepsOnlyNamedRules(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newConstraint(&fakeConstraint{name: "TeacherConflict", priority: Critical, allow: false, reason: "conflict", noScoring: true})))
	require.NoError(t, r.Register(newConstraint(&fakeConstraint{name: "MondayPeriod6", priority: High, allow: false, reason: "monday6", noScoring: true})))

	ok, reason := r.CanPlace(schedule.New(), nil, domain.TimeSlot{}, domain.Assignment{}, Relaxed)
	assert.False(t, ok)
	assert.Equal(t, "conflict", reason, "Relaxed still enforces Critical-tier TeacherConflict")
}

func TestRegistryCanPlaceRelaxedDropsUnrelatedHighRules(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newConstraint(&fakeConstraint{name: "MondayPeriod6", priority: High, allow: false, reason: "monday6", noScoring: true})))

	ok, _ := r.CanPlace(schedule.New(), nil, domain.TimeSlot{}, domain.Assignment{}, Relaxed)
	assert.True(t, ok, "Relaxed only keeps GymExclusive among High rules")
}

func TestRegistryScoreSumsScoringConstraints(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newConstraint(&fakeConstraint{name: "S1", priority: Low, allow: true, score: 1.5, noDelta: true})))
	require.NoError(t, r.Register(newConstraint(&fakeConstraint{name: "S2", priority: Medium, allow: true, score: 2.5, noDelta: true})))

	assert.Equal(t, 4.0, r.Score(schedule.New(), nil))
}

func TestExpressionScorerCompilesAndCaches(t *testing.T) {
	s := NewExpressionScorer()
	vars := map[string]any{"shortage": 3, "weight": 2}

	v, err := s.Eval("shortage * weight", vars)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	v2, err := s.Eval("shortage * weight", map[string]any{"shortage": 5, "weight": 2})
	require.NoError(t, err)
	assert.Equal(t, 10.0, v2)
}

func TestExpressionScorerRejectsEmpty(t *testing.T) {
	s := NewExpressionScorer()
	_, err := s.Eval("", nil)
	require.Error(t, err)
}
