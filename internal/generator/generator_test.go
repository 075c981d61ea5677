package generator

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/config"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/observability"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/ports"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/ports/stub"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
)

func buildGeneratorSchool(t *testing.T) *school.School {
	t.Helper()
	class := domain.ClassRef{Grade: 1, ClassNumber: 1}
	b := school.NewBuilder()
	b.AddClass(class)
	b.AddTeacher("田中")
	b.AddTeacher("鈴木")
	b.AddCandidate(class, domain.SubjectMath, "田中")
	b.AddCandidate(class, domain.SubjectJapanese, "鈴木")
	b.SetRequiredHours(class, domain.SubjectMath, 4)
	b.SetRequiredHours(class, domain.SubjectJapanese, 4)
	sc, err := b.Build()
	require.NoError(t, err)
	return sc
}

func newTestOrchestrator() *Orchestrator {
	return NewOrchestrator(observability.NewBus(), observability.NewMetrics(), zerolog.Nop())
}

func TestGenerateReturnsScheduleWithoutCriticalViolations(t *testing.T) {
	sc := buildGeneratorSchool(t)
	o := newTestOrchestrator()

	result, err := o.Generate(
		context.Background(),
		"job-1",
		stub.SchoolSource{School: sc},
		stub.ScheduleSource{},
		stub.FollowUpSource{},
		stub.RulesSource{Rules: config.Rules{}},
	)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.Report.CountAtOrAbove(constraint.Critical))
	assert.Less(t, result.Stats.EmptySlots, 30)
}

func TestGeneratePropagatesSchoolLoadError(t *testing.T) {
	o := newTestOrchestrator()
	boom := domain.ConfigError("boom", nil)

	_, err := o.Generate(
		context.Background(),
		"job-2",
		failingSchoolSource{err: boom},
		stub.ScheduleSource{},
		stub.FollowUpSource{},
		stub.RulesSource{Rules: config.Rules{}},
	)

	require.Error(t, err)
}

func TestGeneratePrunesAbsentTeacherAssignments(t *testing.T) {
	sc := buildGeneratorSchool(t)
	class := domain.ClassRef{Grade: 1, ClassNumber: 1}
	slot, err := domain.NewTimeSlot(domain.Monday, 1)
	require.NoError(t, err)

	initial := schedule.New()
	require.NoError(t, initial.Assign(class, slot, domain.Assignment{Class: class, Subject: domain.SubjectMath, Teacher: "田中"}))

	o := newTestOrchestrator()
	result, err := o.Generate(
		context.Background(),
		"job-3",
		stub.SchoolSource{School: sc},
		stub.ScheduleSource{Initial: initial},
		stub.FollowUpSource{Overlay: ports.FollowUpOverlay{
			Absences: []ports.TeacherAbsence{{Teacher: "田中", Day: domain.Monday}},
		}},
		stub.RulesSource{Rules: config.Rules{}},
	)

	require.NoError(t, err)
	got, ok := result.Schedule.Get(class, slot)
	if ok {
		assert.NotEqual(t, domain.Teacher("田中"), got.Teacher)
	}
}

type failingSchoolSource struct{ err error }

func (f failingSchoolSource) LoadSchool(ctx context.Context) (*school.School, error) {
	return nil, f.err
}
