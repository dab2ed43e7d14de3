package resources

import (
	"github.com/sarchlab/eventsim/hooking"
	"github.com/sarchlab/eventsim/sim"
)

// A Store is a FIFO queue of values. Puts never wait. Gets wait until a value
// is available and are served in the order they were made.
type Store[V any] struct {
	primitive

	values  []V
	getters []*sim.ValueEvent[V]
}

// NewStore creates an empty store.
func NewStore[V any](engine *sim.SerialEngine, name string) *Store[V] {
	return &Store[V]{primitive: makePrimitive(engine, name)}
}

// Put appends v and hands it to the oldest waiting getter, if any. The
// returned confirmation event is already triggered.
func (s *Store[V]) Put(v V) *sim.Event {
	confirm := s.engine.NewEvent()
	confirm.SetName(s.Name() + ".Put")

	s.values = append(s.values, v)
	_ = confirm.Trigger()
	hooking.Fire(s, HookPosPut, v, confirm)

	s.drain()

	return confirm
}

// Get returns an event that fires with the oldest value. It fires at once if
// a value is stored.
func (s *Store[V]) Get() *sim.ValueEvent[V] {
	getter := sim.NewValueEvent[V](s.engine)
	getter.SetName(s.Name() + ".Get")

	if len(s.values) > 0 {
		s.deliver(getter)
		return getter
	}

	s.getters = append(s.getters, getter)

	return getter
}

func (s *Store[V]) drain() {
	for len(s.getters) > 0 && len(s.values) > 0 {
		getter := s.getters[0]
		s.getters[0] = nil
		s.getters = s.getters[1:]

		if getter.Aborted() {
			continue
		}

		s.deliver(getter)
	}
}

func (s *Store[V]) deliver(getter *sim.ValueEvent[V]) {
	var zero V

	v := s.values[0]
	s.values[0] = zero
	s.values = s.values[1:]

	_ = getter.Trigger(v)
	hooking.Fire(s, HookPosGet, v, getter.Event)
}

// Size returns the number of stored values.
func (s *Store[V]) Size() int {
	return len(s.values)
}

// Waiting returns the number of getters that are neither served nor aborted.
func (s *Store[V]) Waiting() int {
	return countPending(s.getters)
}
