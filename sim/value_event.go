package sim

// ValueEvent is an event that carries a value of type T.
type ValueEvent[T any] struct {
	*Event
}

// NewValueEvent creates a pending event carrying a T.
func NewValueEvent[T any](engine *SerialEngine) *ValueEvent[T] {
	return &ValueEvent[T]{Event: engine.NewEvent()}
}

// TimeoutWithValue creates an event that fires with value after delay.
func TimeoutWithValue[T any](
	engine *SerialEngine,
	delay VTimeInSec,
	value T,
) *ValueEvent[T] {
	evt := engine.Timeout(delay)
	evt.value = value
	evt.hasValue = true

	return &ValueEvent[T]{Event: evt}
}

// Trigger fires the event with value.
func (v *ValueEvent[T]) Trigger(value T) error {
	return v.Event.trigger(value, true)
}

// Value returns the payload once the event fired.
func (v *ValueEvent[T]) Value() (T, error) {
	var zero T

	raw, err := v.Event.Value()
	if err != nil {
		return zero, err
	}

	if raw == nil {
		return zero, nil
	}

	return raw.(T), nil
}

// Await suspends p until the event is dispatched and returns its value. It
// panics if the event fired without a value.
func (v *ValueEvent[T]) Await(p *Process) T {
	p.Wait(v)

	value, err := v.Value()
	if err != nil {
		panic(err)
	}

	return value
}
