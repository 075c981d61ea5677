package catalogue

import (
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// StandardHours is a Low-priority ScoringConstraint: it penalises, for
// every (class, regular subject) pair, the gap between the weekly hours
// actually placed and school.School.RequiredHours. It never rejects a
// placement outright (deficits are expected mid-search); it only steers
// the optimisation pass towards filling shortages, via an expr-lang
// expression weighting surplus vs. deficit. NewStandardHours (used by
// RegisterAll) takes defaultStandardHoursExpr; NewStandardHoursWithExpression
// accepts another.
type StandardHours struct {
	scorer     *constraint.ExpressionScorer
	expression string
}

// defaultStandardHoursExpr penalises both shortfall and surplus, weighting
// shortfall twice as harshly since an empty required slot is worse than an
// extra repeat of an already-placed subject.
const defaultStandardHoursExpr = "deficit > 0 ? deficit * 2 : -deficit"

func NewStandardHours(scorer *constraint.ExpressionScorer) *StandardHours {
	return &StandardHours{scorer: scorer, expression: defaultStandardHoursExpr}
}

func NewStandardHoursWithExpression(scorer *constraint.ExpressionScorer, expression string) *StandardHours {
	return &StandardHours{scorer: scorer, expression: expression}
}

func (StandardHours) Name() string                  { return "StandardHours" }
func (StandardHours) Priority() constraint.Priority { return constraint.Low }

// ValidateFull never produces a violation; StandardHours has no pass/fail
// notion, only a score. It satisfies Constraint so it can still be
// registered and reported on alongside the pass/fail rules.
func (StandardHours) ValidateFull(s *schedule.Schedule, sc *school.School) []constraint.Violation {
	return nil
}

func (h *StandardHours) Score(s *schedule.Schedule, sc *school.School) float64 {
	weeklyCounts := countWeeklySubjects(s, sc.Classes())

	var total float64
	for _, class := range sc.Classes() {
		for _, subject := range domain.RegularSubjectsInPriorityOrder {
			required := sc.RequiredHours(class, subject)
			if required == 0 {
				continue
			}
			actual := weeklyCounts[classSubject{class, subject}]
			deficit := float64(required) - float64(actual)
			penalty, err := h.scorer.Eval(h.expression, map[string]any{"deficit": deficit})
			if err != nil {
				continue
			}
			total += penalty
		}
	}
	return total
}

type classSubject struct {
	Class   domain.ClassRef
	Subject domain.Subject
}

func countWeeklySubjects(s *schedule.Schedule, classes []domain.ClassRef) map[classSubject]int {
	counts := make(map[classSubject]int)
	for _, cell := range s.IterAll() {
		counts[classSubject{cell.Class, cell.Assignment.Subject}]++
	}
	return counts
}
