package catalogue

import (
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/availability"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// TeacherWorkload is a Low-priority ScoringConstraint penalising a
// teacher's daily or weekly assignment count beyond
// availability.Tracker.MaxDailyHours/MaxWeeklyHours. Unlike TeacherAbsence
// (Critical, pass/fail on a hard unavailable slot), going over a workload
// cap is undesirable but not illegal -- the filler should prefer another
// teacher first, not refuse to place the lesson at all.
type TeacherWorkload struct {
	tracker *availability.Tracker
}

func NewTeacherWorkload(tracker *availability.Tracker) *TeacherWorkload {
	return &TeacherWorkload{tracker: tracker}
}

func (TeacherWorkload) Name() string                  { return "TeacherWorkload" }
func (TeacherWorkload) Priority() constraint.Priority { return constraint.Low }

func (TeacherWorkload) ValidateFull(s *schedule.Schedule, sc *school.School) []constraint.Violation {
	return nil
}

func (c *TeacherWorkload) Score(s *schedule.Schedule, sc *school.School) float64 {
	type dayKey struct {
		Teacher domain.Teacher
		Day     domain.Weekday
	}
	daily := make(map[dayKey]int)
	weekly := make(map[domain.Teacher]int)

	for _, cell := range s.IterAll() {
		t := cell.Assignment.Teacher
		if t.IsZero() || sc.IsSentinelTeacher(t) {
			continue
		}
		daily[dayKey{t, cell.Slot.Day}]++
		weekly[t]++
	}

	var penalty float64
	for key, count := range daily {
		if cap := int(c.tracker.MaxDailyHours(key.Teacher)); count > cap {
			penalty += float64(count - cap)
		}
	}
	for teacher, count := range weekly {
		if cap := int(c.tracker.MaxWeeklyHours(teacher)); count > cap {
			penalty += float64(count-cap) * 2
		}
	}
	return penalty
}
