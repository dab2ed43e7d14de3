// Package tracing provides hooks that observe a simulation: a logger, a
// tracer that stores dispatches and primitive operations in a database, an
// in-memory collector, and a resource utilization tracer.
package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/eventsim/hooking"
	"github.com/sarchlab/eventsim/naming"
	"github.com/sarchlab/eventsim/resources"
	"github.com/sarchlab/eventsim/sim"
)

// NamedHookable is a named object that accepts hooks.
type NamedHookable interface {
	naming.Named
	hooking.Hookable
}

// CollectTrace attaches hook to domain. Attaching the same hook to a domain
// twice panics.
func CollectTrace(domain NamedHookable, hook hooking.Hook) {
	for _, h := range domain.Hooks() {
		if h == hook {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(hook)))
		}
	}

	domain.AcceptHook(hook)
}

// DispatchRecord describes one dispatch of the engine.
type DispatchRecord struct {
	Seq       uint64  `json:"seq"`
	Time      float64 `json:"time"`
	EventID   uint64  `json:"event_id"`
	Event     string  `json:"event"`
	Callbacks int     `json:"callbacks"`
	Late      bool    `json:"late"`
}

// PrimitiveRecord describes one operation on a primitive.
type PrimitiveRecord struct {
	Time      float64 `json:"time"`
	Primitive string  `json:"primitive"`
	Op        string  `json:"op"`
	EventID   uint64  `json:"event_id"`
	Event     string  `json:"event"`
	Item      string  `json:"item"`
}

// ParseDispatch extracts the record of a dispatch from the context of an
// engine hook. It reports false for any other hook position.
func ParseDispatch(ctx hooking.HookCtx) (DispatchRecord, bool) {
	if ctx.Pos != sim.HookPosBeforeEvent {
		return DispatchRecord{}, false
	}

	evt, ok := ctx.Item.(*sim.Event)
	if !ok {
		return DispatchRecord{}, false
	}

	d, _ := ctx.Detail.(sim.Dispatch)

	return DispatchRecord{
		Seq:       d.Seq,
		Time:      float64(d.Time),
		EventID:   uint64(evt.ID()),
		Event:     evt.Name(),
		Callbacks: d.Callbacks,
		Late:      d.Late,
	}, true
}

// ParsePrimitiveOp extracts the record of a primitive operation happening at
// now. It reports false for positions other than those of the primitives.
func ParsePrimitiveOp(
	ctx hooking.HookCtx,
	now sim.VTimeInSec,
) (PrimitiveRecord, bool) {
	switch ctx.Pos {
	case resources.HookPosPut,
		resources.HookPosGet,
		resources.HookPosRequest,
		resources.HookPosRelease:
	default:
		return PrimitiveRecord{}, false
	}

	rec := PrimitiveRecord{
		Time: float64(now),
		Op:   ctx.Pos.Name,
	}

	if named, ok := ctx.Domain.(naming.Named); ok {
		rec.Primitive = named.Name()
	}

	if evt, ok := ctx.Detail.(*sim.Event); ok && evt != nil {
		rec.EventID = uint64(evt.ID())
		rec.Event = evt.Name()
	}

	if ctx.Item != nil {
		rec.Item = fmt.Sprint(ctx.Item)
	}

	return rec, true
}
