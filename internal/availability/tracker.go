// Package availability holds the teacher availability tracker (spec
// component C6): a read-only, build-once-per-job view of which (teacher,
// slot) pairs a teacher can actually be assigned to.
package availability

import "github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"

// Tracker is built once from school.School plus follow-up overlay data and
// never mutated during placement -- grounded in the teacher's read-mostly,
// build-once caches (internal/application/executor/conditions.go's cache
// maps, populated lazily and never invalidated mid-run). The zero value is
// not usable; construct with NewBuilder.
type Tracker struct {
	availableSlots map[domain.Teacher]map[domain.TimeSlot]struct{}
	absenceSlots   map[domain.Teacher]map[domain.TimeSlot]struct{}
	meetingSlots   map[domain.Teacher]map[domain.TimeSlot]struct{}
	maxDailyHours  map[domain.Teacher]uint8
	maxWeeklyHours map[domain.Teacher]uint8
}

const (
	defaultMaxDailyHours  uint8 = 6
	defaultMaxWeeklyHours uint8 = 30
)

// IsAvailable reports slot ∈ available_slots ∧ slot ∉ absence_slots ∧ slot
// ∉ meeting_slots, per spec.md §4.4. Sentinel teachers are always
// available; callers should check school.School.IsSentinelTeacher first
// since a sentinel has no entry in any of this tracker's sets.
func (t *Tracker) IsAvailable(teacher domain.Teacher, slot domain.TimeSlot) bool {
	if _, absent := t.absenceSlots[teacher][slot]; absent {
		return false
	}
	if _, meeting := t.meetingSlots[teacher][slot]; meeting {
		return false
	}
	if avail, ok := t.availableSlots[teacher]; ok {
		_, present := avail[slot]
		return present
	}
	// A teacher with no configured available-slot set defaults to "all 30
	// slots available" (spec.md §4.4: "default all 30; intersected with
	// part-time windows" -- only a configured part-time window narrows it).
	return true
}

// IsAbsent reports whether teacher is marked absent (whole day or specific
// period) at slot, independent of meetings/part-time windows.
func (t *Tracker) IsAbsent(teacher domain.Teacher, slot domain.TimeSlot) bool {
	_, ok := t.absenceSlots[teacher][slot]
	return ok
}

// MaxDailyHours returns the configured daily cap for teacher, or the
// default if none was configured.
func (t *Tracker) MaxDailyHours(teacher domain.Teacher) uint8 {
	if v, ok := t.maxDailyHours[teacher]; ok {
		return v
	}
	return defaultMaxDailyHours
}

// MaxWeeklyHours returns the configured weekly cap for teacher, or the
// default if none was configured.
func (t *Tracker) MaxWeeklyHours(teacher domain.Teacher) uint8 {
	if v, ok := t.maxWeeklyHours[teacher]; ok {
		return v
	}
	return defaultMaxWeeklyHours
}
