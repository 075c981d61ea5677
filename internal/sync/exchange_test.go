package sync

import (
	"testing"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeSyncCopiesParentSubject(t *testing.T) {
	sched := schedule.New()
	reg := constraint.NewRegistry()
	e := NewExchangeSynchroniser(sched, nil, reg)
	sl := testSlot(t, domain.Monday, 1)
	parent := domain.ClassRef{Grade: 1, ClassNumber: 1}
	exchange := domain.ClassRef{Grade: 1, ClassNumber: 6}

	require.NoError(t, sched.Assign(parent, sl, domain.Assignment{Class: parent, Subject: domain.SubjectMath, Teacher: "田中"}))
	require.NoError(t, e.SyncSlot(sl))

	got, ok := sched.Get(exchange, sl)
	require.True(t, ok)
	assert.Equal(t, domain.SubjectMath, got.Subject)
	assert.Equal(t, domain.Teacher("田中"), got.Teacher)
}

func TestExchangeSyncSkipsFixedAndJiritsuLikeParentSubjects(t *testing.T) {
	sched := schedule.New()
	reg := constraint.NewRegistry()
	e := NewExchangeSynchroniser(sched, nil, reg)
	sl := testSlot(t, domain.Monday, 2)
	parent := domain.ClassRef{Grade: 1, ClassNumber: 1}
	exchange := domain.ClassRef{Grade: 1, ClassNumber: 6}

	require.NoError(t, sched.Assign(parent, sl, domain.Assignment{Class: parent, Subject: domain.SubjectHomeroomAct, Teacher: "田中"}))
	require.NoError(t, e.SyncSlot(sl))

	_, ok := sched.Get(exchange, sl)
	assert.False(t, ok, "fixed subjects are never copied into the exchange cell")
}

func TestExchangeSyncRespectsLockedExchangeCell(t *testing.T) {
	sched := schedule.New()
	reg := constraint.NewRegistry()
	e := NewExchangeSynchroniser(sched, nil, reg)
	sl := testSlot(t, domain.Monday, 1)
	parent := domain.ClassRef{Grade: 1, ClassNumber: 1}
	exchange := domain.ClassRef{Grade: 1, ClassNumber: 6}

	require.NoError(t, sched.Assign(exchange, sl, domain.Assignment{Class: exchange, Subject: domain.SubjectEnglish, Teacher: "佐藤"}))
	sched.Lock(exchange, sl)
	require.NoError(t, sched.Assign(parent, sl, domain.Assignment{Class: parent, Subject: domain.SubjectMath, Teacher: "田中"}))

	require.NoError(t, e.SyncSlot(sl))
	got, ok := sched.Get(exchange, sl)
	require.True(t, ok)
	assert.Equal(t, domain.SubjectEnglish, got.Subject, "locked exchange cell must not be overwritten")
}

func TestExchangeSyncUsesClass3AsGrade2And3Parent(t *testing.T) {
	sched := schedule.New()
	reg := constraint.NewRegistry()
	e := NewExchangeSynchroniser(sched, nil, reg)
	sl := testSlot(t, domain.Monday, 1)
	parent := domain.ClassRef{Grade: 2, ClassNumber: 3}
	exchange := domain.ClassRef{Grade: 2, ClassNumber: 6}
	wrongParent := domain.ClassRef{Grade: 2, ClassNumber: 1}

	require.NoError(t, sched.Assign(parent, sl, domain.Assignment{Class: parent, Subject: domain.SubjectMath, Teacher: "田中"}))
	require.NoError(t, sched.Assign(wrongParent, sl, domain.Assignment{Class: wrongParent, Subject: domain.SubjectEnglish, Teacher: "鈴木"}))
	require.NoError(t, e.SyncSlot(sl))

	got, ok := sched.Get(exchange, sl)
	require.True(t, ok)
	assert.Equal(t, domain.SubjectMath, got.Subject, "2-6 must mirror 2-3, not 2-1")
	assert.Equal(t, domain.Teacher("田中"), got.Teacher)
}

func TestExchangeJiritsuSwapBringsMathToParentSlot(t *testing.T) {
	sched := schedule.New()
	reg := constraint.NewRegistry()
	e := NewExchangeSynchroniser(sched, nil, reg)
	exchangeSlot := testSlot(t, domain.Monday, 1)
	otherSlot := testSlot(t, domain.Monday, 2)
	parent := domain.ClassRef{Grade: 1, ClassNumber: 1}
	exchange := domain.ClassRef{Grade: 1, ClassNumber: 6}

	require.NoError(t, sched.Assign(exchange, exchangeSlot, domain.Assignment{Class: exchange, Subject: domain.SubjectJiritsu, Teacher: "佐藤"}))
	require.NoError(t, sched.Assign(parent, exchangeSlot, domain.Assignment{Class: parent, Subject: domain.SubjectSocial, Teacher: "田中"}))
	require.NoError(t, sched.Assign(parent, otherSlot, domain.Assignment{Class: parent, Subject: domain.SubjectMath, Teacher: "田中"}))

	require.NoError(t, e.SyncSlot(exchangeSlot))

	got, ok := sched.Get(parent, exchangeSlot)
	require.True(t, ok)
	assert.Equal(t, domain.SubjectMath, got.Subject, "swap should have brought 数 to the jiritsu slot")
}
