// Package sync holds the group synchronisers (spec component C7): the
// Grade-5 joint-class synchroniser and the exchange/parent-class
// synchroniser, plus the small predicate helpers the constraint catalogue
// (internal/constraint/catalogue) consults before flagging a "teacher
// doubling" as a conflict.
//
// Named sync rather than sync2 or groups to match spec.md's own "group
// synchronisers" heading; it does not import the standard library sync
// package under this name anywhere a collision would matter.
package sync

import "github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"

// IsJointGroup reports whether classes is exactly the three Grade-5 classes
// (in any order) -- the one legal grouping that lets the same teacher teach
// every member of the group at the same slot (I5).
func IsJointGroup(classes []domain.ClassRef) bool {
	if len(classes) != 3 {
		return false
	}
	want := make(map[domain.ClassRef]struct{}, 3)
	for _, c := range domain.Grade5Classes() {
		want[c] = struct{}{}
	}
	for _, c := range classes {
		if _, ok := want[c]; !ok {
			return false
		}
		delete(want, c)
	}
	return len(want) == 0
}

// IsExchangePair reports whether classes is exactly {exchange, its parent}
// (in any order) -- the other legal grouping for the same teacher to appear
// twice at one slot (parallel exchange/parent teaching).
func IsExchangePair(classes []domain.ClassRef) bool {
	if len(classes) != 2 {
		return false
	}
	a, b := classes[0], classes[1]
	if parent, ok := a.ParentClass(); ok && parent == b {
		return true
	}
	if parent, ok := b.ParentClass(); ok && parent == a {
		return true
	}
	return false
}

// IsLegalDoubling reports whether a teacher occupying every class in
// classes simultaneously is permitted -- either because there's only one
// class (no doubling at all) or because the set is exactly a joint Grade-5
// group or an exchange/parent pair.
func IsLegalDoubling(classes []domain.ClassRef) bool {
	switch len(classes) {
	case 0, 1:
		return true
	case 2:
		return IsExchangePair(classes)
	case 3:
		return IsJointGroup(classes)
	default:
		return false
	}
}
