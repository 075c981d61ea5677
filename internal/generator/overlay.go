package generator

import (
	"time"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/availability"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/config"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/filler"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/placement"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/ports"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// buildTracker constructs the availability.Tracker (spec component C6)
// from the rules document's part-time windows/hour caps plus the
// follow-up overlay's absences and meetings, per spec.md §4.4/§4.8 step 3.
func buildTracker(sc *school.School, rules config.Rules, overlay ports.FollowUpOverlay) *availability.Tracker {
	b := availability.NewBuilder()

	for _, w := range rules.PartTimeWindows {
		slots := make([]domain.TimeSlot, 0, len(w.Slots))
		for _, s := range w.Slots {
			slot, err := s.ToTimeSlot()
			if err != nil {
				continue
			}
			slots = append(slots, slot)
		}
		b.SetPartTimeWindow(w.Teacher, slots)
	}
	for _, c := range rules.HourCaps {
		if c.Daily > 0 {
			b.SetMaxDailyHours(c.Teacher, c.Daily)
		}
		if c.Weekly > 0 {
			b.SetMaxWeeklyHours(c.Teacher, c.Weekly)
		}
	}
	for _, abs := range overlay.Absences {
		if abs.Periods == nil {
			b.MarkAbsentDay(abs.Teacher, abs.Day)
			continue
		}
		for _, p := range abs.Periods {
			if slot, err := domain.NewTimeSlot(abs.Day, p); err == nil {
				b.MarkAbsent(abs.Teacher, slot)
			}
		}
	}
	for _, m := range overlay.Meetings {
		for _, t := range m.Participants {
			b.MarkMeeting(t, m.Slot)
		}
	}

	return b.Build()
}

// applyOverlay writes the follow-up overlay's fixed assignments onto sched
// and locks the affected cells, per spec.md §4.8 step 3. The overlay's
// TestPeriods are not applied: no cell is written or locked for them.
// Absence pruning (step 4) is handled separately by pruneAbsentTeachers
// once the tracker exists.
func applyOverlay(sched *schedule.Schedule, overlay ports.FollowUpOverlay) {
	for _, fa := range overlay.FixedAssignments {
		if sched.IsLocked(fa.Class, fa.Slot) {
			continue
		}
		existing, _ := sched.Get(fa.Class, fa.Slot)
		_ = sched.Remove(fa.Class, fa.Slot)
		if err := sched.Assign(fa.Class, fa.Slot, domain.Assignment{Class: fa.Class, Subject: fa.Subject, Teacher: existing.Teacher}); err != nil {
			continue
		}
		sched.Lock(fa.Class, fa.Slot)
	}
}

// pruneAbsentTeachers removes every assignment held by a teacher the
// tracker now reports absent at that slot, leaving the cell empty for
// the CSP engine / filler to refill (spec.md §4.8 step 4). Locked cells
// are left untouched: a fixed or test-period lock always wins over an
// absence.
func pruneAbsentTeachers(sched *schedule.Schedule, tracker *availability.Tracker) int {
	removed := 0
	for _, cell := range sched.IterAll() {
		if sched.IsLocked(cell.Class, cell.Slot) {
			continue
		}
		if cell.Assignment.Teacher.IsZero() {
			continue
		}
		if tracker.IsAbsent(cell.Assignment.Teacher, cell.Slot) {
			if err := sched.Remove(cell.Class, cell.Slot); err == nil {
				removed++
			}
		}
	}
	return removed
}

// buildStats assembles ports.Stats (spec.md §6 output 3) from the
// finished run's report and intermediate pass statistics.
func (o *Orchestrator) buildStats(
	sched *schedule.Schedule,
	sc *school.School,
	reg *constraint.Registry,
	report constraint.ValidationResult,
	searchStats placement.Stats,
	fillResult filler.Result,
	start time.Time,
) ports.Stats {
	teacherConflicts := 0
	workloadExcursions := 0
	for _, v := range report.Violations {
		switch v.ConstraintName {
		case "TeacherConflict":
			teacherConflicts++
		case "TeacherWorkload":
			workloadExcursions++
		}
	}

	placed := 0
	for _, cell := range sched.IterAll() {
		if !cell.Assignment.IsEmpty() {
			placed++
		}
	}
	emptySlots := len(sched.IterEmpty(sc.Classes(), domain.AllTimeSlots()))

	deficits, surpluses := hourBalance(sched, sc)

	return ports.Stats{
		AssignmentsPlaced:     placed,
		TeacherConflicts:      teacherConflicts,
		EmptySlots:            emptySlots,
		HourDeficits:          deficits,
		HourSurpluses:         surpluses,
		WorkloadExcursions:    workloadExcursions,
		WallTimeMillis:        time.Since(start).Milliseconds(),
		SolverBudgetExhausted: searchStats.Exhausted,
		FillerPassesRun:       len(fillResult.PassesRun),
		FillerDuplicatesUsed:  fillResult.DuplicatesUsed,
	}
}

// hourBalance sums, across every class and regular subject, how far the
// placed weekly count falls short of or exceeds school.School's required
// hours (spec.md §6 output 3's "hour deficits/surpluses").
func hourBalance(sched *schedule.Schedule, sc *school.School) (deficits, surpluses int) {
	counts := make(map[domain.ClassRef]map[domain.Subject]int)
	for _, cell := range sched.IterAll() {
		if cell.Assignment.IsEmpty() || !cell.Assignment.Subject.IsRegular() {
			continue
		}
		if counts[cell.Class] == nil {
			counts[cell.Class] = make(map[domain.Subject]int)
		}
		counts[cell.Class][cell.Assignment.Subject]++
	}
	for _, class := range sc.Classes() {
		for _, subj := range domain.RegularSubjectsInPriorityOrder {
			required := int(sc.RequiredHours(class, subj))
			if required == 0 {
				continue
			}
			actual := counts[class][subj]
			if actual < required {
				deficits += required - actual
			} else if actual > required {
				surpluses += actual - required
			}
		}
	}
	return deficits, surpluses
}
