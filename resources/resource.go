package resources

import (
	"github.com/sarchlab/eventsim/hooking"
	"github.com/sarchlab/eventsim/sim"
)

// A Resource is a counting semaphore with a strict FIFO queue of requests.
type Resource struct {
	primitive

	capacity  uint64
	available uint64
	requests  []*sim.Event
}

// NewResource creates a resource with capacity units available.
func NewResource(engine *sim.SerialEngine, name string, capacity uint64) *Resource {
	return &Resource{
		primitive: makePrimitive(engine, name),
		capacity:  capacity,
		available: capacity,
	}
}

// Request queues a request for one unit. The returned event fires once the
// unit is granted. Aborting the event withdraws the request.
func (r *Resource) Request() *sim.Event {
	evt := r.engine.NewEvent()
	evt.SetName(r.Name() + ".Request")

	r.requests = append(r.requests, evt)
	r.grant()

	return evt
}

// Release returns one unit and grants it to the oldest live request.
func (r *Resource) Release() {
	r.available++
	hooking.Fire(r, HookPosRelease, nil, nil)

	r.grant()
}

func (r *Resource) grant() {
	for r.available > 0 && len(r.requests) > 0 {
		evt := r.requests[0]
		r.requests[0] = nil
		r.requests = r.requests[1:]

		if evt.Aborted() {
			continue
		}

		_ = evt.Trigger()
		r.available--

		hooking.Fire(r, HookPosRequest, nil, evt)
	}
}

// Available returns the number of units that are not in use.
func (r *Resource) Available() uint64 {
	return r.available
}

// Capacity returns the number of units the resource was created with.
func (r *Resource) Capacity() uint64 {
	return r.capacity
}

// Size returns the number of available units.
func (r *Resource) Size() int {
	return int(r.available)
}

// Waiting returns the number of requests that are neither granted nor
// aborted.
func (r *Resource) Waiting() int {
	return countPending(r.requests)
}
