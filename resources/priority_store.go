package resources

import (
	"container/heap"

	"github.com/sarchlab/eventsim/hooking"
	"github.com/sarchlab/eventsim/sim"
)

type priorityGetter[V any] struct {
	priority int
	time     sim.VTimeInSec
	seq      uint64
	event    *sim.ValueEvent[V]
}

func (g *priorityGetter[V]) outranks(other *priorityGetter[V]) bool {
	if g.priority != other.priority {
		return g.priority < other.priority
	}

	if g.time != other.time {
		return g.time < other.time
	}

	return g.seq < other.seq
}

type getterHeap[V any] []*priorityGetter[V]

func (h getterHeap[V]) Len() int {
	return len(h)
}

func (h getterHeap[V]) Less(i, j int) bool {
	return h[i].outranks(h[j])
}

func (h getterHeap[V]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *getterHeap[V]) Push(x any) {
	*h = append(*h, x.(*priorityGetter[V]))
}

func (h *getterHeap[V]) Pop() any {
	old := *h
	n := len(old)
	g := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return g
}

// A PriorityStore is a FIFO queue of values served to getters by priority.
//
// A lower priority number ranks first. Among getters of equal priority, the
// one that asked first is served first.
type PriorityStore[V any] struct {
	primitive

	values  []V
	getters getterHeap[V]
	nextSeq uint64
}

// NewPriorityStore creates an empty priority store.
func NewPriorityStore[V any](engine *sim.SerialEngine, name string) *PriorityStore[V] {
	return &PriorityStore[V]{primitive: makePrimitive(engine, name)}
}

// Put appends v and hands stored values to the best-ranked getters. The
// returned confirmation event is already triggered.
func (s *PriorityStore[V]) Put(v V) *sim.Event {
	confirm := s.engine.NewEvent()
	confirm.SetName(s.Name() + ".Put")

	s.values = append(s.values, v)
	_ = confirm.Trigger()
	hooking.Fire(s, HookPosPut, v, confirm)

	s.drain()

	return confirm
}

// Get returns an event that fires with the oldest value once this getter is
// the best-ranked one. It fires at once if a value is stored and no waiting
// getter outranks it.
func (s *PriorityStore[V]) Get(priority int) *sim.ValueEvent[V] {
	getter := sim.NewValueEvent[V](s.engine)
	getter.SetName(s.Name() + ".Get")

	s.nextSeq++
	candidate := &priorityGetter[V]{
		priority: priority,
		time:     s.engine.Now(),
		seq:      s.nextSeq,
		event:    getter,
	}

	if len(s.values) > 0 &&
		(len(s.getters) == 0 || candidate.outranks(s.getters[0])) {
		s.deliver(getter)
		return getter
	}

	heap.Push(&s.getters, candidate)
	s.drain()

	return getter
}

func (s *PriorityStore[V]) drain() {
	for len(s.getters) > 0 && len(s.values) > 0 {
		g := heap.Pop(&s.getters).(*priorityGetter[V])
		if g.event.Aborted() {
			continue
		}

		s.deliver(g.event)
	}
}

func (s *PriorityStore[V]) deliver(getter *sim.ValueEvent[V]) {
	var zero V

	v := s.values[0]
	s.values[0] = zero
	s.values = s.values[1:]

	_ = getter.Trigger(v)
	hooking.Fire(s, HookPosGet, v, getter.Event)
}

// Size returns the number of stored values.
func (s *PriorityStore[V]) Size() int {
	return len(s.values)
}

// Waiting returns the number of getters that are neither served nor aborted.
func (s *PriorityStore[V]) Waiting() int {
	n := 0

	for _, g := range s.getters {
		if !g.event.Aborted() {
			n++
		}
	}

	return n
}
