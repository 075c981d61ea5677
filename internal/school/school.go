// Package school holds the School entity (spec component C3): the
// immutable-after-construction directory of classes, teachers, and the
// subject/hour/availability data the rest of the core queries but never
// mutates once a generation job starts.
package school

import (
	"fmt"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
)

type classSubjectKey struct {
	Class   domain.ClassRef
	Subject domain.Subject
}

type teacherSlotKey struct {
	Teacher domain.Teacher
	Slot    domain.TimeSlot
}

type gradeSlotKey struct {
	Grade uint8
	Slot  domain.TimeSlot
}

// School is built once per generation job via Builder and never mutated
// afterwards, so it needs no internal locking: every read is safe to share
// across goroutines and across placement.Search's multi-start trials (which
// it runs one after another).
type School struct {
	classes         []domain.ClassRef
	teachers        []domain.Teacher
	candidates      map[classSubjectKey][]domain.Teacher
	requiredHours   map[classSubjectKey]uint8
	unavailable     map[teacherSlotKey]struct{}
	sentinels       map[domain.Teacher]struct{}
	jointTeachers   map[domain.Subject]domain.Teacher
	homeroomTeacher map[domain.ClassRef]domain.Teacher
	testPeriods     map[gradeSlotKey]domain.Subject
}

// Classes returns every class this school schedules, in construction order.
func (s *School) Classes() []domain.ClassRef {
	out := make([]domain.ClassRef, len(s.classes))
	copy(out, s.classes)
	return out
}

// Teachers returns every teacher known to this school, in construction order.
func (s *School) Teachers() []domain.Teacher {
	out := make([]domain.Teacher, len(s.teachers))
	copy(out, s.teachers)
	return out
}

// TeacherCandidates resolves the (subject, class) -> teacher mapping. It may
// return more than one name when multiple teachers can cover the subject for
// that class; an empty slice means the subject has no eligible teacher
// registered (fixed subjects routinely resolve to zero candidates, in which
// case callers fall back to the zero Teacher value).
func (s *School) TeacherCandidates(class domain.ClassRef, subject domain.Subject) []domain.Teacher {
	cands := s.candidates[classSubjectKey{class, subject}]
	out := make([]domain.Teacher, len(cands))
	copy(out, cands)
	return out
}

// RequiredHours returns the standard weekly hour count for (class, subject),
// or 0 if the pairing carries no hour requirement (fixed/special subjects
// are typically not present in this map at all).
func (s *School) RequiredHours(class domain.ClassRef, subject domain.Subject) uint8 {
	return s.requiredHours[classSubjectKey{class, subject}]
}

// IsUnavailable reports whether teacher t is known to be unable to teach at
// slot (absence, meeting, or part-time window outside its hours). Sentinel
// teachers are never unavailable: IsSentinelTeacher callers should check
// that first, since this map is never seeded for them.
func (s *School) IsUnavailable(t domain.Teacher, slot domain.TimeSlot) bool {
	_, ok := s.unavailable[teacherSlotKey{t, slot}]
	return ok
}

// IsSentinelTeacher reports whether t is exempt from conflict checks because
// its "class" is administrative rather than instructional (e.g. 欠課担当).
func (s *School) IsSentinelTeacher(t domain.Teacher) bool {
	if t.IsDefaultSentinel() {
		return true
	}
	_, ok := s.sentinels[t]
	return ok
}

// JointTeacher returns the teacher who teaches subject to the joint Grade-5
// group, if one is configured. Used by the Grade-5 synchroniser (C7) when it
// picks a single teacher for all three Grade-5 cells.
func (s *School) JointTeacher(subject domain.Subject) (domain.Teacher, bool) {
	t, ok := s.jointTeachers[subject]
	return t, ok
}

// HomeroomTeacher returns the class's homeroom teacher, used to resolve
// fixed subjects (学活, 道, YT, ...) that are always taught by the homeroom
// teacher rather than a subject specialist.
func (s *School) HomeroomTeacher(class domain.ClassRef) (domain.Teacher, bool) {
	t, ok := s.homeroomTeacher[class]
	return t, ok
}

// TestSubject returns the subject being tested for grade at slot (from
// follow-up-derived test-period data), if any. Used by TestPeriodProtection
// to stop a Grade-5 joint class from holding the same subject a same-grade
// regular class is currently being examined on.
func (s *School) TestSubject(grade uint8, slot domain.TimeSlot) (domain.Subject, bool) {
	subject, ok := s.testPeriods[gradeSlotKey{grade, slot}]
	return subject, ok
}

// HasClass reports whether class is known to this school.
func (s *School) HasClass(class domain.ClassRef) bool {
	for _, c := range s.classes {
		if c == class {
			return true
		}
	}
	return false
}

func (s *School) String() string {
	return fmt.Sprintf("School{classes=%d teachers=%d}", len(s.classes), len(s.teachers))
}
