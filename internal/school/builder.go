package school

import (
	"fmt"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
)

// Builder accumulates the pieces of a School before Build validates and
// freezes them. Grounded in the teacher's registry Register-then-use shape
// (internal/node/registry.go): accumulate under a builder, surface a single
// immutable value once assembly is complete, rather than exposing mutators
// on School itself.
type Builder struct {
	classSet        map[domain.ClassRef]struct{}
	classes         []domain.ClassRef
	teacherSet      map[domain.Teacher]struct{}
	teachers        []domain.Teacher
	candidates      map[classSubjectKey][]domain.Teacher
	requiredHours   map[classSubjectKey]uint8
	unavailable     map[teacherSlotKey]struct{}
	sentinels       map[domain.Teacher]struct{}
	jointTeachers   map[domain.Subject]domain.Teacher
	homeroomTeacher map[domain.ClassRef]domain.Teacher
	testPeriods     map[gradeSlotKey]domain.Subject
}

func NewBuilder() *Builder {
	return &Builder{
		classSet:        make(map[domain.ClassRef]struct{}),
		teacherSet:      make(map[domain.Teacher]struct{}),
		candidates:      make(map[classSubjectKey][]domain.Teacher),
		requiredHours:   make(map[classSubjectKey]uint8),
		unavailable:     make(map[teacherSlotKey]struct{}),
		sentinels:       make(map[domain.Teacher]struct{}),
		jointTeachers:   make(map[domain.Subject]domain.Teacher),
		homeroomTeacher: make(map[domain.ClassRef]domain.Teacher),
		testPeriods:     make(map[gradeSlotKey]domain.Subject),
	}
}

func (b *Builder) AddClass(class domain.ClassRef) *Builder {
	if _, ok := b.classSet[class]; !ok {
		b.classSet[class] = struct{}{}
		b.classes = append(b.classes, class)
	}
	return b
}

func (b *Builder) AddTeacher(t domain.Teacher) *Builder {
	if _, ok := b.teacherSet[t]; !ok {
		b.teacherSet[t] = struct{}{}
		b.teachers = append(b.teachers, t)
	}
	return b
}

// AddCandidate registers teacher t as able to teach subject to class. The
// teacher is implicitly added to the school's teacher roster.
func (b *Builder) AddCandidate(class domain.ClassRef, subject domain.Subject, t domain.Teacher) *Builder {
	b.AddTeacher(t)
	key := classSubjectKey{class, subject}
	for _, existing := range b.candidates[key] {
		if existing == t {
			return b
		}
	}
	b.candidates[key] = append(b.candidates[key], t)
	return b
}

func (b *Builder) SetRequiredHours(class domain.ClassRef, subject domain.Subject, hours uint8) *Builder {
	b.requiredHours[classSubjectKey{class, subject}] = hours
	return b
}

// MarkUnavailable records that teacher t cannot teach at slot (absence,
// meeting, or outside a part-time window).
func (b *Builder) MarkUnavailable(t domain.Teacher, slot domain.TimeSlot) *Builder {
	b.unavailable[teacherSlotKey{t, slot}] = struct{}{}
	return b
}

func (b *Builder) AddSentinel(t domain.Teacher) *Builder {
	b.sentinels[t] = struct{}{}
	return b
}

func (b *Builder) SetJointTeacher(subject domain.Subject, t domain.Teacher) *Builder {
	b.AddTeacher(t)
	b.jointTeachers[subject] = t
	return b
}

func (b *Builder) SetHomeroomTeacher(class domain.ClassRef, t domain.Teacher) *Builder {
	b.AddTeacher(t)
	b.homeroomTeacher[class] = t
	return b
}

// AddTestPeriod records that grade's regular classes are being examined on
// subject at slot.
func (b *Builder) AddTestPeriod(grade uint8, slot domain.TimeSlot, subject domain.Subject) *Builder {
	b.testPeriods[gradeSlotKey{grade, slot}] = subject
	return b
}

// Build validates referential integrity (every candidate/homeroom/joint
// teacher was added via AddTeacher, every keyed class was added via
// AddClass) and returns a frozen *School, or a domain.ConfigError.
func (b *Builder) Build() (*School, error) {
	if len(b.classes) == 0 {
		return nil, domain.ConfigError("school must have at least one class", nil)
	}
	for key := range b.candidates {
		if _, ok := b.classSet[key.Class]; !ok {
			return nil, domain.ConfigError(fmt.Sprintf("candidate registered for unknown class %s", key.Class), nil)
		}
	}
	for key := range b.requiredHours {
		if _, ok := b.classSet[key.Class]; !ok {
			return nil, domain.ConfigError(fmt.Sprintf("required hours set for unknown class %s", key.Class), nil)
		}
	}
	for class := range b.homeroomTeacher {
		if _, ok := b.classSet[class]; !ok {
			return nil, domain.ConfigError(fmt.Sprintf("homeroom teacher set for unknown class %s", class), nil)
		}
	}

	classes := make([]domain.ClassRef, len(b.classes))
	copy(classes, b.classes)
	teachers := make([]domain.Teacher, len(b.teachers))
	copy(teachers, b.teachers)

	candidates := make(map[classSubjectKey][]domain.Teacher, len(b.candidates))
	for k, v := range b.candidates {
		cp := make([]domain.Teacher, len(v))
		copy(cp, v)
		candidates[k] = cp
	}
	requiredHours := make(map[classSubjectKey]uint8, len(b.requiredHours))
	for k, v := range b.requiredHours {
		requiredHours[k] = v
	}
	unavailable := make(map[teacherSlotKey]struct{}, len(b.unavailable))
	for k := range b.unavailable {
		unavailable[k] = struct{}{}
	}
	sentinels := make(map[domain.Teacher]struct{}, len(b.sentinels))
	for k := range b.sentinels {
		sentinels[k] = struct{}{}
	}
	jointTeachers := make(map[domain.Subject]domain.Teacher, len(b.jointTeachers))
	for k, v := range b.jointTeachers {
		jointTeachers[k] = v
	}
	homeroomTeacher := make(map[domain.ClassRef]domain.Teacher, len(b.homeroomTeacher))
	for k, v := range b.homeroomTeacher {
		homeroomTeacher[k] = v
	}
	testPeriods := make(map[gradeSlotKey]domain.Subject, len(b.testPeriods))
	for k, v := range b.testPeriods {
		testPeriods[k] = v
	}

	return &School{
		classes:         classes,
		teachers:        teachers,
		candidates:      candidates,
		requiredHours:   requiredHours,
		unavailable:     unavailable,
		sentinels:       sentinels,
		jointTeachers:   jointTeachers,
		homeroomTeacher: homeroomTeacher,
		testPeriods:     testPeriods,
	}, nil
}
