// Package schedule holds the Schedule aggregate (spec component C2): the
// single mutable map of (class, slot) -> assignment plus the auxiliary
// indices the constraint framework reads in O(1).
//
// Schedule is a plain mutable aggregate, not an event-sourced one: adapted
// from the teacher's concurrency discipline (internal/domain/execution.go's
// mutex-guarded aggregate) but deliberately dropping its event-sourcing
// persistence model, since this domain's invariants (I1-I5) are about
// cross-cell consistency at a point in time, not an audit trail of how a
// cell got there.
package schedule

import (
	"sync"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
)

type cellKey struct {
	Class domain.ClassRef
	Slot  domain.TimeSlot
}

type teacherSlotKey struct {
	Slot    domain.TimeSlot
	Teacher domain.Teacher
}

type dailyDupKey struct {
	Class   domain.ClassRef
	Day     domain.Weekday
	Subject domain.Subject
}

// Schedule is the core mutable aggregate: a dense cell map plus three
// auxiliary indices (teacher occupancy, daily duplicate counter, gym
// occupancy) kept consistent on every mutation (I1-I2). The zero value is
// not usable; construct with New.
type Schedule struct {
	mu sync.RWMutex

	cells  map[cellKey]domain.Assignment
	locked map[cellKey]struct{}

	teacherAt map[teacherSlotKey]map[domain.ClassRef]struct{}
	dailyDup  map[dailyDupKey]int
	gymAt     map[domain.TimeSlot]map[domain.ClassRef]struct{}
}

// New returns an empty Schedule with no cells assigned or locked.
func New() *Schedule {
	return &Schedule{
		cells:     make(map[cellKey]domain.Assignment),
		locked:    make(map[cellKey]struct{}),
		teacherAt: make(map[teacherSlotKey]map[domain.ClassRef]struct{}),
		dailyDup:  make(map[dailyDupKey]int),
		gymAt:     make(map[domain.TimeSlot]map[domain.ClassRef]struct{}),
	}
}

// Assign replaces the cell's current value, or returns a CellLockedError if
// the cell is locked (I1). It does not itself run any constraint check:
// callers must consult internal/constraint first. All three auxiliary
// indices are updated as part of the same critical section (I2).
func (s *Schedule) Assign(class domain.ClassRef, slot domain.TimeSlot, a domain.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cellKey{class, slot}
	if _, locked := s.locked[key]; locked {
		return domain.CellLockedError("cell is locked: " + class.String() + " " + slot.String())
	}

	if prev, ok := s.cells[key]; ok {
		s.unindexLocked(class, slot, prev)
	}
	s.cells[key] = a
	s.indexLocked(class, slot, a)
	return nil
}

// Remove clears the cell, decrementing indices. Removing an already-empty
// cell is a no-op. Returns CellLockedError if the cell is locked.
func (s *Schedule) Remove(class domain.ClassRef, slot domain.TimeSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cellKey{class, slot}
	if _, locked := s.locked[key]; locked {
		return domain.CellLockedError("cell is locked: " + class.String() + " " + slot.String())
	}
	prev, ok := s.cells[key]
	if !ok {
		return nil
	}
	s.unindexLocked(class, slot, prev)
	delete(s.cells, key)
	return nil
}

// Get returns the cell's current assignment and whether it is occupied.
func (s *Schedule) Get(class domain.ClassRef, slot domain.TimeSlot) (domain.Assignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.cells[cellKey{class, slot}]
	return a, ok
}

// Lock marks a cell as never-mutate-again (I1). Locking an already-locked
// cell is a no-op.
func (s *Schedule) Lock(class domain.ClassRef, slot domain.TimeSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked[cellKey{class, slot}] = struct{}{}
}

func (s *Schedule) IsLocked(class domain.ClassRef, slot domain.TimeSlot) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.locked[cellKey{class, slot}]
	return ok
}

// Cell is a single (class, slot, assignment) triple, the element type of
// IterAll/IterEmpty.
type Cell struct {
	Class      domain.ClassRef
	Slot       domain.TimeSlot
	Assignment domain.Assignment
}

// IterAll returns every occupied cell. Finite by construction (at most
// |classes| * 30 entries), so a plain slice snapshot is simpler than a true
// lazy iterator and just as safe to hand to a caller holding no lock.
func (s *Schedule) IterAll() []Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Cell, 0, len(s.cells))
	for k, a := range s.cells {
		out = append(out, Cell{Class: k.Class, Slot: k.Slot, Assignment: a})
	}
	return out
}

// IterEmpty returns every (class, slot) pair among the given classes/slots
// that currently holds no assignment.
func (s *Schedule) IterEmpty(classes []domain.ClassRef, slots []domain.TimeSlot) []EmptyCell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]EmptyCell, 0)
	for _, c := range classes {
		for _, slot := range slots {
			if _, ok := s.cells[cellKey{c, slot}]; !ok {
				out = append(out, EmptyCell{Class: c, Slot: slot})
			}
		}
	}
	return out
}

// EmptyCell is the (class, slot) pair returned by IterEmpty.
type EmptyCell struct {
	Class domain.ClassRef
	Slot  domain.TimeSlot
}

// AssignmentsAt returns every class occupying slot, keyed by class, in O(1)
// relative to the whole schedule size (bounded by classes actually at that
// slot).
func (s *Schedule) AssignmentsAt(slot domain.TimeSlot, classes []domain.ClassRef) map[domain.ClassRef]domain.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[domain.ClassRef]domain.Assignment)
	for _, c := range classes {
		if a, ok := s.cells[cellKey{c, slot}]; ok {
			out[c] = a
		}
	}
	return out
}

// TeachersAt returns the set of classes each teacher is occupying at slot,
// via the teacher-occupancy index (O(1) per teacher).
func (s *Schedule) TeachersAt(slot domain.TimeSlot) map[domain.Teacher][]domain.ClassRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[domain.Teacher][]domain.ClassRef)
	for k, classes := range s.teacherAt {
		if k.Slot != slot {
			continue
		}
		list := make([]domain.ClassRef, 0, len(classes))
		for c := range classes {
			list = append(list, c)
		}
		out[k.Teacher] = list
	}
	return out
}

// DailyDuplicateCount returns how many times subject already appears in
// class's schedule on day, via the daily-duplicate index.
func (s *Schedule) DailyDuplicateCount(class domain.ClassRef, day domain.Weekday, subject domain.Subject) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dailyDup[dailyDupKey{class, day, subject}]
}

// GymOccupants returns the classes using the gym (保) at slot.
func (s *Schedule) GymOccupants(slot domain.TimeSlot) []domain.ClassRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	occupants := s.gymAt[slot]
	out := make([]domain.ClassRef, 0, len(occupants))
	for c := range occupants {
		out = append(out, c)
	}
	return out
}

// indexLocked/unindexLocked assume the caller already holds s.mu.

func (s *Schedule) indexLocked(class domain.ClassRef, slot domain.TimeSlot, a domain.Assignment) {
	if a.IsEmpty() {
		return
	}
	if !a.Teacher.IsZero() {
		tk := teacherSlotKey{slot, a.Teacher}
		if s.teacherAt[tk] == nil {
			s.teacherAt[tk] = make(map[domain.ClassRef]struct{})
		}
		s.teacherAt[tk][class] = struct{}{}
	}
	s.dailyDup[dailyDupKey{class, slot.Day, a.Subject}]++
	if a.Subject == domain.SubjectPE {
		if s.gymAt[slot] == nil {
			s.gymAt[slot] = make(map[domain.ClassRef]struct{})
		}
		s.gymAt[slot][class] = struct{}{}
	}
}

func (s *Schedule) unindexLocked(class domain.ClassRef, slot domain.TimeSlot, a domain.Assignment) {
	if a.IsEmpty() {
		return
	}
	if !a.Teacher.IsZero() {
		tk := teacherSlotKey{slot, a.Teacher}
		if set, ok := s.teacherAt[tk]; ok {
			delete(set, class)
			if len(set) == 0 {
				delete(s.teacherAt, tk)
			}
		}
	}
	dk := dailyDupKey{class, slot.Day, a.Subject}
	if s.dailyDup[dk] > 0 {
		s.dailyDup[dk]--
		if s.dailyDup[dk] == 0 {
			delete(s.dailyDup, dk)
		}
	}
	if a.Subject == domain.SubjectPE {
		if set, ok := s.gymAt[slot]; ok {
			delete(set, class)
			if len(set) == 0 {
				delete(s.gymAt, slot)
			}
		}
	}
}
