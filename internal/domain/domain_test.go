package domain

import "testing"

func TestClassRefPredicates(t *testing.T) {
	cases := []struct {
		name               string
		c                  ClassRef
		grade5, exch, reg  bool
	}{
		{"regular", ClassRef{1, 1}, false, false, true},
		{"grade5", ClassRef{2, 5}, true, false, false},
		{"exchange6", ClassRef{3, 6}, false, true, false},
		{"exchange7", ClassRef{1, 7}, false, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.IsGrade5(); got != tc.grade5 {
				t.Errorf("IsGrade5() = %v, want %v", got, tc.grade5)
			}
			if got := tc.c.IsExchange(); got != tc.exch {
				t.Errorf("IsExchange() = %v, want %v", got, tc.exch)
			}
			if got := tc.c.IsRegular(); got != tc.reg {
				t.Errorf("IsRegular() = %v, want %v", got, tc.reg)
			}
		})
	}
}

func TestExchangeParentMapping(t *testing.T) {
	want := map[ClassRef]ClassRef{
		{1, 6}: {1, 1}, {1, 7}: {1, 2},
		{2, 6}: {2, 3}, {2, 7}: {2, 2},
		{3, 6}: {3, 3}, {3, 7}: {3, 2},
	}
	for ex, wantParent := range want {
		parent, ok := ex.ParentClass()
		if !ok {
			t.Fatalf("%v: expected a parent class", ex)
		}
		if parent != wantParent {
			t.Errorf("%v.ParentClass() = %v, want %v", ex, parent, wantParent)
		}
	}
	if _, ok := ClassRef{1, 1}.ParentClass(); ok {
		t.Error("regular class should have no parent")
	}
}

// TestExchangePairsMatchOriginalSource walks every declared pair via
// ExchangePairs and checks it against the original implementation's
// hard-coded table (src/domain/services/smart_empty_slot_filler.py:62-69),
// so a future edit to exchangeToParent can't silently regress one of the
// six pairs the way {2,6}->{2,1} and {3,6}->{3,1} previously did.
func TestExchangePairsMatchOriginalSource(t *testing.T) {
	want := map[ClassRef]ClassRef{
		{1, 6}: {1, 1}, {1, 7}: {1, 2},
		{2, 6}: {2, 3}, {2, 7}: {2, 2},
		{3, 6}: {3, 3}, {3, 7}: {3, 2},
	}
	pairs := ExchangePairs()
	if len(pairs) != len(want) {
		t.Fatalf("ExchangePairs() returned %d pairs, want %d", len(pairs), len(want))
	}
	for _, p := range pairs {
		wantParent, ok := want[p.Exchange]
		if !ok {
			t.Fatalf("unexpected exchange class %v in ExchangePairs()", p.Exchange)
		}
		if p.Parent != wantParent {
			t.Errorf("%v -> %v, want %v", p.Exchange, p.Parent, wantParent)
		}
	}
}

func TestSubjectPartition(t *testing.T) {
	if !SubjectMath.IsRegular() || SubjectMath.IsFixed() || SubjectMath.IsSpecial() {
		t.Error("数 should be regular only")
	}
	if !SubjectAbsence.IsFixed() || SubjectAbsence.IsRegular() {
		t.Error("欠 should be fixed only")
	}
	if !SubjectJiritsu.IsSpecial() || !SubjectJiritsu.IsJiritsuLike() {
		t.Error("自立 should be special and jiritsu-like")
	}
	if SubjectSeitan.IsJiritsuLike() {
		t.Error("生単 is not in the jiritsu-like set")
	}
}

func TestAllTimeSlotsCount(t *testing.T) {
	slots := AllTimeSlots()
	if len(slots) != 30 {
		t.Fatalf("expected 30 slots, got %d", len(slots))
	}
	seen := make(map[TimeSlot]bool)
	for _, s := range slots {
		if seen[s] {
			t.Fatalf("duplicate slot %v", s)
		}
		seen[s] = true
	}
}

func TestNewTimeSlotValidation(t *testing.T) {
	if _, err := NewTimeSlot(Monday, 0); err == nil {
		t.Error("expected error for period 0")
	}
	if _, err := NewTimeSlot(Monday, 7); err == nil {
		t.Error("expected error for period 7")
	}
	if _, err := NewTimeSlot(Weekday(9), 1); err == nil {
		t.Error("expected error for invalid weekday")
	}
	if _, err := NewTimeSlot(Friday, 6); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
