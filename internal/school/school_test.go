package school

import (
	"testing"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSlot(t *testing.T, day domain.Weekday, period uint8) domain.TimeSlot {
	t.Helper()
	slot, err := domain.NewTimeSlot(day, period)
	require.NoError(t, err)
	return slot
}

func TestBuilderBuildsValidSchool(t *testing.T) {
	class1 := domain.ClassRef{Grade: 1, ClassNumber: 1}
	class5 := domain.ClassRef{Grade: 1, ClassNumber: 5}
	slot := mustSlot(t, domain.Monday, 1)

	sc, err := NewBuilder().
		AddClass(class1).
		AddClass(class5).
		AddCandidate(class1, domain.SubjectMath, "田中").
		AddCandidate(class1, domain.SubjectMath, "佐藤").
		SetRequiredHours(class1, domain.SubjectMath, 4).
		SetHomeroomTeacher(class1, "田中").
		SetJointTeacher(domain.SubjectMath, "鈴木").
		AddSentinel("特別指導").
		MarkUnavailable("田中", slot).
		Build()
	require.NoError(t, err)

	assert.ElementsMatch(t, []domain.Teacher{"田中", "佐藤"}, sc.TeacherCandidates(class1, domain.SubjectMath))
	assert.Equal(t, uint8(4), sc.RequiredHours(class1, domain.SubjectMath))
	assert.True(t, sc.IsUnavailable("田中", slot))
	assert.False(t, sc.IsUnavailable("佐藤", slot))
	assert.True(t, sc.IsSentinelTeacher("特別指導"))
	assert.True(t, sc.IsSentinelTeacher("欠課担当"), "default sentinel must always be recognised")
	joint, ok := sc.JointTeacher(domain.SubjectMath)
	assert.True(t, ok)
	assert.Equal(t, domain.Teacher("鈴木"), joint)
	homeroom, ok := sc.HomeroomTeacher(class1)
	assert.True(t, ok)
	assert.Equal(t, domain.Teacher("田中"), homeroom)
	assert.True(t, sc.HasClass(class1))
	assert.False(t, sc.HasClass(domain.ClassRef{Grade: 3, ClassNumber: 3}))
}

func TestBuilderRejectsEmptySchool(t *testing.T) {
	_, err := NewBuilder().Build()
	require.Error(t, err)
	var domErr *domain.Error
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, domain.ErrConfig, domErr.Code)
}

func TestBuilderRejectsUnknownClassReferences(t *testing.T) {
	known := domain.ClassRef{Grade: 1, ClassNumber: 1}
	unknown := domain.ClassRef{Grade: 2, ClassNumber: 2}

	_, err := NewBuilder().
		AddClass(known).
		SetRequiredHours(unknown, domain.SubjectMath, 3).
		Build()
	require.Error(t, err)
}

func TestCandidatesReturnsIndependentCopy(t *testing.T) {
	class1 := domain.ClassRef{Grade: 1, ClassNumber: 1}
	sc, err := NewBuilder().
		AddClass(class1).
		AddCandidate(class1, domain.SubjectMath, "田中").
		Build()
	require.NoError(t, err)

	got := sc.TeacherCandidates(class1, domain.SubjectMath)
	got[0] = "mutated"
	assert.Equal(t, domain.Teacher("田中"), sc.TeacherCandidates(class1, domain.SubjectMath)[0])
}
