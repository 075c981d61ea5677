package catalogue

import (
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/availability"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
)

// RegisterAll registers the full fifteen-rule catalogue from spec.md §4.3
// onto reg, in Critical-to-Low order. Callers needing a custom subset
// (tests, a reduced Forced-only registry) should register individual
// constraints directly instead.
func RegisterAll(reg *constraint.Registry, tracker *availability.Tracker, scorer *constraint.ExpressionScorer) error {
	all := []constraint.Constraint{
		NewFixedSubjectLock(),
		NewTeacherConflict(),
		NewTeacherAbsence(tracker),
		NewPartTimeWindow(tracker),
		NewGrade5Sync(),
		NewExchangeJiritsuRule(),
		NewExchangeSync(),
		NewDailyDuplicate(),
		NewGymExclusive(),
		NewTestPeriodProtection(),
		NewMondayPeriod6(),
		NewTuesdayGymLimit(),
		NewStandardHours(scorer),
		NewTeacherWorkload(tracker),
		NewConsecutivePeriods(),
	}
	for _, c := range all {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
