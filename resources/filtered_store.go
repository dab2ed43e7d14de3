package resources

import (
	"slices"

	"github.com/sarchlab/eventsim/hooking"
	"github.com/sarchlab/eventsim/sim"
)

type filteredGetter[V any] struct {
	event *sim.ValueEvent[V]
	pred  func(V) bool
}

// A FilteredStore hands values to getters whose predicate accepts them.
//
// A put only offers the value it adds, to the oldest getter that accepts it.
// A get considers every stored value, oldest first. So a getter that only
// accepts a value stored earlier stays waiting until another get scans the
// store.
type FilteredStore[V any] struct {
	primitive

	values  []V
	getters []filteredGetter[V]
}

// NewFilteredStore creates an empty filtered store.
func NewFilteredStore[V any](engine *sim.SerialEngine, name string) *FilteredStore[V] {
	return &FilteredStore[V]{primitive: makePrimitive(engine, name)}
}

// Put appends v and offers it to the waiting getters, oldest first. At most
// one getter receives it. The returned confirmation event is already
// triggered.
func (s *FilteredStore[V]) Put(v V) *sim.Event {
	confirm := s.engine.NewEvent()
	confirm.SetName(s.Name() + ".Put")

	s.values = append(s.values, v)
	_ = confirm.Trigger()
	hooking.Fire(s, HookPosPut, v, confirm)

	s.purge()

	if len(s.getters) == 0 || len(s.values) == 0 {
		return confirm
	}

	newest := len(s.values) - 1
	for i, g := range s.getters {
		if !g.pred(s.values[newest]) {
			continue
		}

		s.getters = slices.Delete(s.getters, i, i+1)
		s.deliver(newest, g.event)

		break
	}

	return confirm
}

// Get returns an event that fires with the oldest stored value pred accepts.
// It fires at once if such a value is stored.
func (s *FilteredStore[V]) Get(pred func(V) bool) *sim.ValueEvent[V] {
	getter := sim.NewValueEvent[V](s.engine)
	getter.SetName(s.Name() + ".Get")

	if len(s.values) > 0 {
		s.purge()

		for i, v := range s.values {
			if pred(v) {
				s.deliver(i, getter)
				return getter
			}
		}
	}

	s.getters = append(s.getters, filteredGetter[V]{event: getter, pred: pred})

	return getter
}

func (s *FilteredStore[V]) purge() {
	live := s.getters[:0]

	for _, g := range s.getters {
		if !g.event.Aborted() {
			live = append(live, g)
		}
	}

	clear(s.getters[len(live):])
	s.getters = live
}

func (s *FilteredStore[V]) deliver(i int, getter *sim.ValueEvent[V]) {
	v := s.values[i]
	s.values = slices.Delete(s.values, i, i+1)

	_ = getter.Trigger(v)
	hooking.Fire(s, HookPosGet, v, getter.Event)
}

// Size returns the number of stored values.
func (s *FilteredStore[V]) Size() int {
	return len(s.values)
}

// Waiting returns the number of getters that are neither served nor aborted.
func (s *FilteredStore[V]) Waiting() int {
	n := 0

	for _, g := range s.getters {
		if !g.event.Aborted() {
			n++
		}
	}

	return n
}
