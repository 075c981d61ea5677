package schedule

import (
	"testing"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slot(t *testing.T, day domain.Weekday, period uint8) domain.TimeSlot {
	t.Helper()
	s, err := domain.NewTimeSlot(day, period)
	require.NoError(t, err)
	return s
}

func TestAssignAndGet(t *testing.T) {
	s := New()
	class := domain.ClassRef{Grade: 1, ClassNumber: 1}
	sl := slot(t, domain.Monday, 1)
	a := domain.Assignment{Class: class, Subject: domain.SubjectMath, Teacher: "田中"}

	require.NoError(t, s.Assign(class, sl, a))
	got, ok := s.Get(class, sl)
	require.True(t, ok)
	assert.Equal(t, a, got)
}

func TestAssignRejectsLockedCell(t *testing.T) {
	s := New()
	class := domain.ClassRef{Grade: 1, ClassNumber: 1}
	sl := slot(t, domain.Monday, 1)
	s.Lock(class, sl)

	err := s.Assign(class, sl, domain.Assignment{Class: class, Subject: domain.SubjectMath, Teacher: "田中"})
	require.Error(t, err)
	var domErr *domain.Error
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, domain.ErrCellLocked, domErr.Code)
}

func TestRemoveClearsIndices(t *testing.T) {
	s := New()
	class := domain.ClassRef{Grade: 1, ClassNumber: 1}
	sl := slot(t, domain.Monday, 1)
	a := domain.Assignment{Class: class, Subject: domain.SubjectPE, Teacher: "田中"}
	require.NoError(t, s.Assign(class, sl, a))

	assert.Equal(t, 1, s.DailyDuplicateCount(class, domain.Monday, domain.SubjectPE))
	assert.Contains(t, s.GymOccupants(sl), class)
	teachersAt := s.TeachersAt(sl)
	assert.Contains(t, teachersAt["田中"], class)

	require.NoError(t, s.Remove(class, sl))
	assert.Equal(t, 0, s.DailyDuplicateCount(class, domain.Monday, domain.SubjectPE))
	assert.Empty(t, s.GymOccupants(sl))
	_, ok := s.Get(class, sl)
	assert.False(t, ok)
}

func TestTeacherConflictIndexAcrossClasses(t *testing.T) {
	s := New()
	c1 := domain.ClassRef{Grade: 1, ClassNumber: 1}
	c2 := domain.ClassRef{Grade: 1, ClassNumber: 2}
	sl := slot(t, domain.Tuesday, 3)

	require.NoError(t, s.Assign(c1, sl, domain.Assignment{Class: c1, Subject: domain.SubjectMath, Teacher: "田中"}))
	require.NoError(t, s.Assign(c2, sl, domain.Assignment{Class: c2, Subject: domain.SubjectEnglish, Teacher: "田中"}))

	teachers := s.TeachersAt(sl)
	assert.ElementsMatch(t, []domain.ClassRef{c1, c2}, teachers["田中"])
}

func TestIterEmptyListsUnoccupiedCellsOnly(t *testing.T) {
	s := New()
	class := domain.ClassRef{Grade: 1, ClassNumber: 1}
	sl1 := slot(t, domain.Monday, 1)
	sl2 := slot(t, domain.Monday, 2)
	require.NoError(t, s.Assign(class, sl1, domain.Assignment{Class: class, Subject: domain.SubjectMath, Teacher: "田中"}))

	empties := s.IterEmpty([]domain.ClassRef{class}, []domain.TimeSlot{sl1, sl2})
	require.Len(t, empties, 1)
	assert.Equal(t, sl2, empties[0].Slot)
}

func TestGrade5ViewAssignAllTransactional(t *testing.T) {
	s := New()
	view := NewGrade5View(s)
	sl := slot(t, domain.Wednesday, 4)

	require.NoError(t, view.AssignAll(sl, domain.SubjectMath, "鈴木"))
	assert.True(t, view.IsConsistent(sl))
	for _, c := range view.Classes() {
		a, ok := s.Get(c, sl)
		require.True(t, ok)
		assert.Equal(t, domain.SubjectMath, a.Subject)
		assert.Equal(t, domain.Teacher("鈴木"), a.Teacher)
	}
}

func TestGrade5ViewRejectsWhenAnyCellLocked(t *testing.T) {
	s := New()
	view := NewGrade5View(s)
	sl := slot(t, domain.Wednesday, 4)
	s.Lock(view.Classes()[1], sl)

	err := view.AssignAll(sl, domain.SubjectMath, "鈴木")
	require.Error(t, err)
	for _, c := range view.Classes() {
		_, ok := s.Get(c, sl)
		assert.False(t, ok, "no cell should be written on a rejected transactional write")
	}
}

func TestGrade5ViewDetectsInconsistency(t *testing.T) {
	s := New()
	view := NewGrade5View(s)
	sl := slot(t, domain.Thursday, 2)
	classes := view.Classes()

	require.NoError(t, s.Assign(classes[0], sl, domain.Assignment{Class: classes[0], Subject: domain.SubjectMath, Teacher: "鈴木"}))
	assert.False(t, view.IsConsistent(sl))
}
