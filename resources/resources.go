// Package resources provides the synchronization primitives processes use to
// share capacity and to pass values: Resource, Store, FilteredStore, and
// PriorityStore.
//
// Every primitive is bound to one engine. Operations never block; they return
// events that processes wait on. Waiters whose events were aborted are
// skipped and never receive a unit or a value.
package resources

import (
	"github.com/sarchlab/eventsim/hooking"
	"github.com/sarchlab/eventsim/naming"
	"github.com/sarchlab/eventsim/sim"
)

// HookPosPut marks a value entering a store. The item is the value and the
// detail is the confirmation event.
var HookPosPut = &hooking.HookPos{Name: "Put"}

// HookPosGet marks a value leaving a store. The item is the value and the
// detail is the event of the getter that receives it.
var HookPosGet = &hooking.HookPos{Name: "Get"}

// HookPosRequest marks a unit of a resource being granted. The detail is the
// request event.
var HookPosRequest = &hooking.HookPos{Name: "Request"}

// HookPosRelease marks a unit of a resource being returned.
var HookPosRelease = &hooking.HookPos{Name: "Release"}

// Observable is implemented by every primitive so that tracers and monitors
// can report on them.
type Observable interface {
	naming.Named
	hooking.Hookable

	// Size returns the number of stored values, or the number of available
	// units for a Resource.
	Size() int

	// Waiting returns the number of queued requests that are not aborted.
	Waiting() int
}

type primitive struct {
	*hooking.HookableBase
	naming.NamedBase

	engine *sim.SerialEngine
}

func makePrimitive(engine *sim.SerialEngine, name string) primitive {
	return primitive{
		HookableBase: hooking.NewHookableBase(),
		NamedBase:    naming.MakeNamedBase(name),
		engine:       engine,
	}
}

// Engine returns the engine the primitive is bound to.
func (p *primitive) Engine() *sim.SerialEngine {
	return p.engine
}

func countPending[E sim.Awaitable](events []E) int {
	n := 0

	for _, e := range events {
		if !e.AsEvent().Aborted() {
			n++
		}
	}

	return n
}

var (
	_ Observable = (*Resource)(nil)
	_ Observable = (*Store[int])(nil)
	_ Observable = (*FilteredStore[int])(nil)
	_ Observable = (*PriorityStore[int])(nil)
)
