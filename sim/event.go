package sim

import (
	"fmt"

	"github.com/sarchlab/eventsim/idgen"
)

// State is the life-cycle stage of an event.
type State int

// An event moves from Pending to Triggered to Processed, or from Pending to
// Aborted.
const (
	StatePending State = iota
	StateTriggered
	StateProcessed
	StateAborted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateTriggered:
		return "Triggered"
	case StateProcessed:
		return "Processed"
	case StateAborted:
		return "Aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Awaitable is anything a process can wait on.
type Awaitable interface {
	AsEvent() *Event
}

// An Event is a single-fire occurrence that may carry a value.
//
// Events are shared by the engine queue, by every waiter, and by composite
// events. They are never reused.
type Event struct {
	engine *SerialEngine
	id     idgen.ID
	name   string
	state  State
	time   VTimeInSec

	value    any
	hasValue bool

	callbacks []func(*Event)
}

func newEvent(engine *SerialEngine, name string) *Event {
	return &Event{
		engine: engine,
		id:     engine.ids.Generate(),
		name:   name,
	}
}

// AsEvent returns the event itself.
func (e *Event) AsEvent() *Event {
	return e
}

// ID returns the identifier of the event, unique within its engine.
func (e *Event) ID() idgen.ID {
	return e.id
}

// Name returns the label of the event.
func (e *Event) Name() string {
	return e.name
}

// SetName changes the label of the event. Labels show up in logs and traces.
func (e *Event) SetName(name string) {
	e.name = name
}

// Engine returns the engine the event belongs to.
func (e *Event) Engine() *SerialEngine {
	return e.engine
}

// Time returns the virtual time the event is scheduled to fire at. It is only
// meaningful once the event has been triggered or scheduled as a timeout.
func (e *Event) Time() VTimeInSec {
	return e.time
}

// State returns the current state.
func (e *Event) State() State {
	return e.state
}

// Pending tells if the event has neither fired nor been aborted.
func (e *Event) Pending() bool {
	return e.state == StatePending
}

// Triggered tells if the event fired and waits for its dispatch.
func (e *Event) Triggered() bool {
	return e.state == StateTriggered
}

// Processed tells if the engine dispatched the event.
func (e *Event) Processed() bool {
	return e.state == StateProcessed
}

// Aborted tells if the event was aborted.
func (e *Event) Aborted() bool {
	return e.state == StateAborted
}

// Trigger fires the event without a value. Its continuations run at the
// current time, after every trigger already scheduled for that time.
func (e *Event) Trigger() error {
	return e.trigger(nil, false)
}

func (e *Event) trigger(value any, hasValue bool) error {
	if e.state != StatePending {
		return e.stateError("trigger")
	}

	e.value = value
	e.hasValue = hasValue
	e.state = StateTriggered
	e.engine.schedule(e, 0)

	return nil
}

// Abort makes a pending event permanently inert. No continuation of an
// aborted event ever runs and a process waiting on it never resumes.
func (e *Event) Abort() error {
	if e.state != StatePending {
		return e.stateError("abort")
	}

	e.state = StateAborted
	e.callbacks = nil
	e.value = nil
	e.hasValue = false

	return nil
}

// Value returns the payload of a fired event.
func (e *Event) Value() (any, error) {
	switch {
	case e.state == StatePending || e.state == StateAborted:
		return nil, e.stateError("read value of")
	case !e.hasValue:
		return nil, &StateError{
			Op:    "read value of",
			Event: e,
			State: e.state,
			Err:   ErrNoValue,
		}
	}

	return e.value, nil
}

// AddCallback registers a continuation. Continuations run in registration
// order when the event is dispatched. A continuation added after dispatch is
// scheduled on its own at the current time. Continuations added to an aborted
// event are dropped.
func (e *Event) AddCallback(cb func(*Event)) {
	switch e.state {
	case StateAborted:
		return
	case StateProcessed:
		e.engine.scheduleLate(e, cb)
	default:
		e.callbacks = append(e.callbacks, cb)
	}
}

// Or returns an event that fires when either e or other fires.
func (e *Event) Or(other Awaitable) *Event {
	return e.engine.AnyOf(e, other)
}

// And returns an event that fires when both e and other fired.
func (e *Event) And(other Awaitable) *Event {
	return e.engine.AllOf(e, other)
}

func (e *Event) String() string {
	return fmt.Sprintf("event %d (%s)", e.id, e.name)
}

func (e *Event) stateError(op string) error {
	err := ErrInvalidStateTransition
	if e.state == StateAborted {
		err = fmt.Errorf("%w: %w", ErrInvalidStateTransition, ErrUseAfterAbort)
	}

	return &StateError{Op: op, Event: e, State: e.state, Err: err}
}
