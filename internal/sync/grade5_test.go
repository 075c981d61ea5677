package sync

import (
	"testing"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSlot(t *testing.T, day domain.Weekday, period uint8) domain.TimeSlot {
	t.Helper()
	s, err := domain.NewTimeSlot(day, period)
	require.NoError(t, err)
	return s
}

func buildTestSchool(t *testing.T) *school.School {
	t.Helper()
	b := school.NewBuilder()
	for _, c := range domain.Grade5Classes() {
		b.AddClass(c)
		b.SetRequiredHours(c, domain.SubjectMath, 4)
	}
	b.SetJointTeacher(domain.SubjectMath, "鈴木")
	sc, err := b.Build()
	require.NoError(t, err)
	return sc
}

func TestGrade5SyncSlotAdoptsLockedCellSubject(t *testing.T) {
	sched := schedule.New()
	sc := buildTestSchool(t)
	reg := constraint.NewRegistry()
	sl := testSlot(t, domain.Monday, 1)
	classes := domain.Grade5Classes()

	require.NoError(t, sched.Assign(classes[0], sl, domain.Assignment{Class: classes[0], Subject: domain.SubjectMath, Teacher: "鈴木"}))
	sched.Lock(classes[0], sl)

	g := NewGrade5Synchroniser(sched, sc, reg)
	require.NoError(t, g.SyncSlot(sl))

	for _, c := range classes {
		a, ok := sched.Get(c, sl)
		require.True(t, ok)
		assert.Equal(t, domain.SubjectMath, a.Subject)
		assert.Equal(t, domain.Teacher("鈴木"), a.Teacher)
	}
}

func TestGrade5SyncSlotIsIdempotent(t *testing.T) {
	sched := schedule.New()
	sc := buildTestSchool(t)
	reg := constraint.NewRegistry()
	sl := testSlot(t, domain.Tuesday, 2)
	g := NewGrade5Synchroniser(sched, sc, reg)

	require.NoError(t, g.FillJointEmpty(sl))
	first := map[domain.ClassRef]domain.Assignment{}
	for _, c := range domain.Grade5Classes() {
		a, _ := sched.Get(c, sl)
		first[c] = a
	}

	require.NoError(t, g.SyncSlot(sl))
	for _, c := range domain.Grade5Classes() {
		a, _ := sched.Get(c, sl)
		assert.Equal(t, first[c], a)
	}
}

func TestGrade5FillJointEmptyPicksShortageSubject(t *testing.T) {
	sched := schedule.New()
	sc := buildTestSchool(t)
	reg := constraint.NewRegistry()
	sl := testSlot(t, domain.Wednesday, 3)
	g := NewGrade5Synchroniser(sched, sc, reg)

	require.NoError(t, g.FillJointEmpty(sl))
	for _, c := range domain.Grade5Classes() {
		a, ok := sched.Get(c, sl)
		require.True(t, ok)
		assert.Equal(t, domain.SubjectMath, a.Subject)
	}
}
