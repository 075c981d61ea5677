package filler

import (
	"testing"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/availability"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint/catalogue"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFillerSchool(t *testing.T) *school.School {
	t.Helper()
	class := domain.ClassRef{Grade: 1, ClassNumber: 1}
	b := school.NewBuilder()
	b.AddClass(class)
	b.AddTeacher("田中")
	b.AddCandidate(class, domain.SubjectMath, "田中")
	b.SetRequiredHours(class, domain.SubjectMath, 30)
	sc, err := b.Build()
	require.NoError(t, err)
	return sc
}

func buildFillerRegistry(t *testing.T) *constraint.Registry {
	t.Helper()
	reg := constraint.NewRegistry()
	tracker := availability.NewBuilder().Build()
	scorer := constraint.NewExpressionScorer()
	require.NoError(t, catalogue.RegisterAll(reg, tracker, scorer))
	return reg
}

func TestFillerRunFillsAllCellsEventually(t *testing.T) {
	sc := buildFillerSchool(t)
	sched := schedule.New()
	reg := buildFillerRegistry(t)

	f := NewFiller(sched, sc, reg)
	result := f.Run()

	assert.Equal(t, 0, f.countEmpty())
	assert.NotEmpty(t, result.PassesRun)
	assert.Contains(t, result.PassesRun, constraint.Strict)
}

func TestFillerNeverIntroducesExcludedFixedSubjects(t *testing.T) {
	sc := buildFillerSchool(t)
	sched := schedule.New()
	reg := buildFillerRegistry(t)

	f := NewFiller(sched, sc, reg)
	f.Run()

	for _, cell := range sched.IterAll() {
		assert.False(t, cell.Assignment.Subject.IsFixed())
	}
}

func TestChooseCandidatePrefersPositiveDeficit(t *testing.T) {
	class := domain.ClassRef{Grade: 1, ClassNumber: 1}
	b := school.NewBuilder()
	b.AddClass(class)
	b.AddTeacher("田中")
	b.AddCandidate(class, domain.SubjectMath, "田中")
	b.SetRequiredHours(class, domain.SubjectMath, 4)
	sc, err := b.Build()
	require.NoError(t, err)

	sched := schedule.New()
	reg := buildFillerRegistry(t)
	f := NewFiller(sched, sc, reg)

	slot, err := domain.NewTimeSlot(domain.Monday, 2)
	require.NoError(t, err)
	subject, teacher, isDup, ok := f.chooseCandidate(class, slot, constraint.Strict)
	require.True(t, ok)
	assert.Equal(t, domain.SubjectMath, subject)
	assert.Equal(t, domain.Teacher("田中"), teacher)
	assert.False(t, isDup)
}
