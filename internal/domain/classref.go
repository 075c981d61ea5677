package domain

import "fmt"

// ClassRef identifies a homeroom class by (grade, class number). Grade runs
// 1..=3, class number 1..=7: numbers 1-4 are regular classes, 5 is the
// Grade-5 special-support class, 6-7 are exchange classes.
type ClassRef struct {
	Grade       uint8
	ClassNumber uint8
}

func NewClassRef(grade, classNumber uint8) (ClassRef, error) {
	if grade < 1 || grade > 3 {
		return ClassRef{}, InvalidInputError(fmt.Sprintf("invalid grade %d", grade))
	}
	if classNumber < 1 || classNumber > 7 {
		return ClassRef{}, InvalidInputError(fmt.Sprintf("invalid class number %d", classNumber))
	}
	return ClassRef{Grade: grade, ClassNumber: classNumber}, nil
}

func (c ClassRef) String() string {
	return fmt.Sprintf("%d-%d", c.Grade, c.ClassNumber)
}

func (c ClassRef) IsGrade5() bool {
	return c.ClassNumber == 5
}

func (c ClassRef) IsExchange() bool {
	return c.ClassNumber == 6 || c.ClassNumber == 7
}

func (c ClassRef) IsRegular() bool {
	return !c.IsGrade5() && !c.IsExchange()
}

// exchangeToParent is the fixed six-pair mapping from spec.md §3
// ("a fixed mapping exchange_class -> parent_class is domain-defined").
// The pairing below is the one the original implementation hard-codes; see
// DESIGN.md "exchange pair table" for the Open-Question resolution.
var exchangeToParent = map[ClassRef]ClassRef{
	{Grade: 1, ClassNumber: 6}: {Grade: 1, ClassNumber: 1},
	{Grade: 1, ClassNumber: 7}: {Grade: 1, ClassNumber: 2},
	{Grade: 2, ClassNumber: 6}: {Grade: 2, ClassNumber: 3},
	{Grade: 2, ClassNumber: 7}: {Grade: 2, ClassNumber: 2},
	{Grade: 3, ClassNumber: 6}: {Grade: 3, ClassNumber: 3},
	{Grade: 3, ClassNumber: 7}: {Grade: 3, ClassNumber: 2},
}

// ParentClass returns the parent class of an exchange class, and false if c
// is not an exchange class.
func (c ClassRef) ParentClass() (ClassRef, bool) {
	parent, ok := exchangeToParent[c]
	return parent, ok
}

// Grade5Classes is the fixed trio of Grade-5 classes, one per grade.
func Grade5Classes() []ClassRef {
	return []ClassRef{
		{Grade: 1, ClassNumber: 5},
		{Grade: 2, ClassNumber: 5},
		{Grade: 3, ClassNumber: 5},
	}
}

// ExchangePairs returns every declared (exchange, parent) pair, in a stable
// order, for callers that need to walk all six.
func ExchangePairs() []struct{ Exchange, Parent ClassRef } {
	pairs := make([]struct{ Exchange, Parent ClassRef }, 0, len(exchangeToParent))
	for grade := uint8(1); grade <= 3; grade++ {
		for _, n := range [2]uint8{6, 7} {
			ex := ClassRef{Grade: grade, ClassNumber: n}
			parent := exchangeToParent[ex]
			pairs = append(pairs, struct{ Exchange, Parent ClassRef }{ex, parent})
		}
	}
	return pairs
}
