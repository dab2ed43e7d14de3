package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStateTransition is returned when an event is triggered or
	// aborted outside the Pending state, or when its value is read before it
	// fired.
	ErrInvalidStateTransition = errors.New("invalid event state transition")

	// ErrUseAfterAbort is returned when a value is delivered through an
	// aborted event.
	ErrUseAfterAbort = errors.New("event aborted")

	// ErrNoValue is returned when reading the value of an event that fired
	// without one.
	ErrNoValue = fmt.Errorf("%w: event carries no value", ErrInvalidStateTransition)

	// ErrTimeRewind is returned when asked to run to a time before now.
	ErrTimeRewind = errors.New("virtual time cannot move backwards")

	// ErrEngineClosed is returned when running an engine after Close.
	ErrEngineClosed = errors.New("engine closed")
)

// StateError reports an operation that is not allowed in the current state of
// an event.
type StateError struct {
	Op    string
	Event *Event
	State State
	Err   error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("sim: cannot %s %s in state %s: %v",
		e.Op, e.Event, e.State, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}
