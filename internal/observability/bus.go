// Package observability is the generation orchestrator's event bus
// (subscribe/notify), hand-rolled metrics, and OpenTelemetry tracing
// helpers.
//
// Bus is grounded in the teacher's ObserverManager
// (internal/infrastructure/monitoring/observer.go): the same
// mutex-guarded subscriber slice with one Notify* method per event shape,
// generalised from workflow/node lifecycle events to generation/variable/
// pass lifecycle events.
package observability

import (
	"sync"
	"time"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
)

// EventKind is the closed set of lifecycle events the orchestrator
// publishes.
type EventKind string

const (
	GenerationStarted  EventKind = "GenerationStarted"
	VariablePlaced     EventKind = "VariablePlaced"
	PassEscalated      EventKind = "PassEscalated"
	GenerationFinished EventKind = "GenerationFinished"
)

// Event is one published lifecycle occurrence. Fields not relevant to Kind
// are left zero.
type Event struct {
	Kind      EventKind
	JobID     string
	Slot      *domain.TimeSlot
	Class     *domain.ClassRef
	Mode      *constraint.Mode
	Timestamp time.Time
}

// Observer receives every Event published on a Bus.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// Bus fans out Events to every subscribed Observer. The zero value is
// ready to use.
type Bus struct {
	mu        sync.RWMutex
	observers []Observer
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, o)
}

// Publish notifies every subscriber synchronously, in subscription order.
// The core is single-threaded (spec.md §5); Publish is not expected to be
// called concurrently from multiple goroutines within one job.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	observers := append([]Observer(nil), b.observers...)
	b.mu.RUnlock()

	for _, o := range observers {
		o.OnEvent(e)
	}
}
