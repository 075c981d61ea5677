package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/config"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/ports"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/ports/stub"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

// buildGrade5School wires one grade's three ordinary classes plus its
// Grade-5 joint class, enough teachers to cover all four, and required
// hours for two regular subjects -- enough surface to exercise the
// Grade-5 synchroniser end to end (P3).
func buildGrade5School(t *testing.T) *school.School {
	t.Helper()
	b := school.NewBuilder()

	regular := []domain.ClassRef{
		{Grade: 1, ClassNumber: 1},
		{Grade: 1, ClassNumber: 2},
		{Grade: 1, ClassNumber: 3},
	}
	g5 := domain.ClassRef{Grade: 1, ClassNumber: 5}

	for _, c := range regular {
		b.AddClass(c)
	}
	b.AddClass(g5)

	b.AddTeacher(domain.Teacher("佐藤"))
	b.AddTeacher(domain.Teacher("鈴木"))

	allClasses := append(append([]domain.ClassRef{}, regular...), g5)
	for _, c := range allClasses {
		b.AddCandidate(c, domain.SubjectMath, domain.Teacher("佐藤"))
		b.AddCandidate(c, domain.SubjectJapanese, domain.Teacher("鈴木"))
		b.SetRequiredHours(c, domain.SubjectMath, 4)
		b.SetRequiredHours(c, domain.SubjectJapanese, 4)
	}

	sc, err := b.Build()
	require.NoError(t, err)
	return sc
}

// TestGenerateKeepsGrade5ClassesInLockstep exercises P3: after a full
// generation run, all three Grade-5 classes hold the same (subject,
// teacher) at every slot.
func TestGenerateKeepsGrade5ClassesInLockstep(t *testing.T) {
	sc := buildGrade5School(t)
	o := newTestOrchestrator()

	result, err := o.Generate(
		context.Background(),
		"job-grade5",
		stub.SchoolSource{School: sc},
		stub.ScheduleSource{},
		stub.FollowUpSource{},
		stub.RulesSource{Rules: config.Rules{}},
	)
	require.NoError(t, err)

	g5Classes := domain.Grade5Classes()
	for _, slot := range domain.AllTimeSlots() {
		var want domain.Assignment
		for i, c := range g5Classes {
			got, ok := result.Schedule.Get(c, slot)
			if i == 0 {
				want = got
				continue
			}
			if !ok && !want.IsEmpty() {
				t.Fatalf("grade5 class %v has no assignment at %v while class 0 has %v", c, slot, want)
			}
			assert.Equal(t, want.Subject, got.Subject, "grade5 mismatch at %v", slot)
			assert.Equal(t, want.Teacher, got.Teacher, "grade5 teacher mismatch at %v", slot)
		}
	}
}

// TestGenerateLeavesAlreadyLockedScheduleUnchanged exercises B1: when
// every cell of the input schedule is already locked, the generator must
// return it unchanged -- the CSP engine and filler never touch a locked
// cell, and the only steps that could otherwise mutate are the
// synchronisers, which is why this school has no Grade-5/exchange classes
// to synchronise.
func TestGenerateLeavesAlreadyLockedScheduleUnchanged(t *testing.T) {
	sc := buildGeneratorSchool(t)
	class := domain.ClassRef{Grade: 1, ClassNumber: 1}

	initial, err := stub.ScheduleSource{}.LoadInitialSchedule(context.Background(), sc)
	require.NoError(t, err)
	for i, slot := range domain.AllTimeSlots() {
		subject := domain.SubjectMath
		teacher := domain.Teacher("鈴木")
		if i%2 == 0 {
			subject = domain.SubjectJapanese
			teacher = domain.Teacher("田中")
		}
		require.NoError(t, initial.Assign(class, slot, domain.Assignment{Class: class, Subject: subject, Teacher: teacher}))
		initial.Lock(class, slot)
	}

	before := snapshotCells(initial)

	o := newTestOrchestrator()
	result, err := o.Generate(
		context.Background(),
		"job-locked",
		stub.SchoolSource{School: sc},
		stub.ScheduleSource{Initial: initial},
		stub.FollowUpSource{},
		stub.RulesSource{Rules: config.Rules{}},
	)
	require.NoError(t, err)

	after := snapshotCells(result.Schedule)
	assert.Equal(t, before, after)
}

// TestGenerateFillsNearlyAllSlotsFromEmptyInput exercises B2: starting
// from a school with no pre-existing assignments and no absences, the
// generator fills at least 95% of cells.
func TestGenerateFillsNearlyAllSlotsFromEmptyInput(t *testing.T) {
	sc := buildGeneratorSchool(t)
	o := newTestOrchestrator()

	result, err := o.Generate(
		context.Background(),
		"job-empty",
		stub.SchoolSource{School: sc},
		stub.ScheduleSource{},
		stub.FollowUpSource{},
		stub.RulesSource{Rules: config.Rules{}},
	)
	require.NoError(t, err)

	total := len(sc.Classes()) * len(domain.AllTimeSlots())
	filled := total - result.Stats.EmptySlots
	assert.GreaterOrEqual(t, float64(filled)/float64(total), 0.95)
}

// TestGenerateNeverAssignsAbsentTeacherOnTheirAbsentDay exercises B3: a
// teacher marked absent for every slot of a day is never assigned a cell
// on that day after generation.
func TestGenerateNeverAssignsAbsentTeacherOnTheirAbsentDay(t *testing.T) {
	sc := buildGeneratorSchool(t)
	absentTeacher := domain.Teacher("鈴木")

	o := newTestOrchestrator()
	result, err := o.Generate(
		context.Background(),
		"job-absent",
		stub.SchoolSource{School: sc},
		stub.ScheduleSource{},
		stub.FollowUpSource{Overlay: ports.FollowUpOverlay{
			Absences: []ports.TeacherAbsence{{Teacher: absentTeacher, Day: domain.Monday}},
		}},
		stub.RulesSource{Rules: config.Rules{}},
	)
	require.NoError(t, err)

	for _, cell := range result.Schedule.IterAll() {
		if cell.Slot.Day == domain.Monday {
			assert.NotEqual(t, absentTeacher, cell.Assignment.Teacher, "absent teacher assigned at %v", cell.Slot)
		}
	}
}

type cellKey struct {
	class domain.ClassRef
	slot  domain.TimeSlot
}

func snapshotCells(sched *schedule.Schedule) map[cellKey]domain.Assignment {
	out := make(map[cellKey]domain.Assignment)
	for _, cell := range sched.IterAll() {
		out[cellKey{class: cell.Class, slot: cell.Slot}] = cell.Assignment
	}
	return out
}
