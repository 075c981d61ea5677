package catalogue

import (
	"fmt"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// DailyDuplicate enforces that for a given (class, day), a non-fixed
// subject appears at most once -- except in Forced mode, where the delta
// check allows up to 2 so the filler's Forced pass can place a daily
// duplicate as a last resort.
type DailyDuplicate struct{}

func NewDailyDuplicate() *DailyDuplicate { return &DailyDuplicate{} }

func (DailyDuplicate) Name() string                  { return "DailyDuplicate" }
func (DailyDuplicate) Priority() constraint.Priority { return constraint.High }

func (DailyDuplicate) ValidateFull(s *schedule.Schedule, sc *school.School) []constraint.Violation {
	var violations []constraint.Violation
	for _, class := range sc.Classes() {
		for _, day := range domain.Weekdays {
			for _, subject := range domain.RegularSubjectsInPriorityOrder {
				count := s.DailyDuplicateCount(class, day, subject)
				if count <= 1 {
					continue
				}
				c := class
				violations = append(violations, constraint.Violation{
					ConstraintName: "DailyDuplicate",
					Severity:       constraint.High,
					Class:          &c,
					Message:        fmt.Sprintf("%s appears %d times on %s for %s", subject, count, day, class),
				})
			}
		}
	}
	return violations
}

func (DailyDuplicate) ValidateDelta(s *schedule.Schedule, sc *school.School, slot domain.TimeSlot, a domain.Assignment, mode constraint.Mode) (bool, string) {
	if a.Subject.IsFixed() {
		return true, ""
	}
	count := s.DailyDuplicateCount(a.Class, slot.Day, a.Subject)
	limit := 1
	if mode == constraint.Forced {
		limit = 2
	}
	if count >= limit {
		return false, fmt.Sprintf("%s already appears %d time(s) on %s for %s", a.Subject, count, slot.Day, a.Class)
	}
	return true, ""
}
