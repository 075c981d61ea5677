package availability

import "github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"

// Builder assembles a Tracker. A teacher with no part-time window
// configured is treated as full-time (available every slot by default);
// calling SetPartTimeWindow narrows that teacher to exactly the given
// slots, per spec.md's "default all 30; intersected with part-time
// windows".
type Builder struct {
	availableSlots map[domain.Teacher]map[domain.TimeSlot]struct{}
	absenceSlots   map[domain.Teacher]map[domain.TimeSlot]struct{}
	meetingSlots   map[domain.Teacher]map[domain.TimeSlot]struct{}
	maxDailyHours  map[domain.Teacher]uint8
	maxWeeklyHours map[domain.Teacher]uint8
}

func NewBuilder() *Builder {
	return &Builder{
		availableSlots: make(map[domain.Teacher]map[domain.TimeSlot]struct{}),
		absenceSlots:   make(map[domain.Teacher]map[domain.TimeSlot]struct{}),
		meetingSlots:   make(map[domain.Teacher]map[domain.TimeSlot]struct{}),
		maxDailyHours:  make(map[domain.Teacher]uint8),
		maxWeeklyHours: make(map[domain.Teacher]uint8),
	}
}

// SetPartTimeWindow restricts teacher's available slots to exactly slots
// (a part-time teacher's configured (day, period) windows).
func (b *Builder) SetPartTimeWindow(teacher domain.Teacher, slots []domain.TimeSlot) *Builder {
	set := make(map[domain.TimeSlot]struct{}, len(slots))
	for _, s := range slots {
		set[s] = struct{}{}
	}
	b.availableSlots[teacher] = set
	return b
}

// MarkAbsent records that teacher is absent at slot (a whole-day absence is
// expressed by calling this once per period of that day).
func (b *Builder) MarkAbsent(teacher domain.Teacher, slot domain.TimeSlot) *Builder {
	if b.absenceSlots[teacher] == nil {
		b.absenceSlots[teacher] = make(map[domain.TimeSlot]struct{})
	}
	b.absenceSlots[teacher][slot] = struct{}{}
	return b
}

// MarkAbsentDay marks every period of day as absent for teacher.
func (b *Builder) MarkAbsentDay(teacher domain.Teacher, day domain.Weekday) *Builder {
	for p := domain.FirstPeriod; p <= domain.LastPeriod; p++ {
		slot, err := domain.NewTimeSlot(day, p)
		if err != nil {
			continue
		}
		b.MarkAbsent(teacher, slot)
	}
	return b
}

// MarkMeeting records that teacher is occupied by a meeting at slot
// (follow-up derived).
func (b *Builder) MarkMeeting(teacher domain.Teacher, slot domain.TimeSlot) *Builder {
	if b.meetingSlots[teacher] == nil {
		b.meetingSlots[teacher] = make(map[domain.TimeSlot]struct{})
	}
	b.meetingSlots[teacher][slot] = struct{}{}
	return b
}

func (b *Builder) SetMaxDailyHours(teacher domain.Teacher, hours uint8) *Builder {
	b.maxDailyHours[teacher] = hours
	return b
}

func (b *Builder) SetMaxWeeklyHours(teacher domain.Teacher, hours uint8) *Builder {
	b.maxWeeklyHours[teacher] = hours
	return b
}

func (b *Builder) Build() *Tracker {
	return &Tracker{
		availableSlots: cloneSlotSets(b.availableSlots),
		absenceSlots:   cloneSlotSets(b.absenceSlots),
		meetingSlots:   cloneSlotSets(b.meetingSlots),
		maxDailyHours:  cloneHours(b.maxDailyHours),
		maxWeeklyHours: cloneHours(b.maxWeeklyHours),
	}
}

func cloneSlotSets(src map[domain.Teacher]map[domain.TimeSlot]struct{}) map[domain.Teacher]map[domain.TimeSlot]struct{} {
	out := make(map[domain.Teacher]map[domain.TimeSlot]struct{}, len(src))
	for teacher, slots := range src {
		cp := make(map[domain.TimeSlot]struct{}, len(slots))
		for s := range slots {
			cp[s] = struct{}{}
		}
		out[teacher] = cp
	}
	return out
}

func cloneHours(src map[domain.Teacher]uint8) map[domain.Teacher]uint8 {
	out := make(map[domain.Teacher]uint8, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
