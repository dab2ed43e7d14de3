package tracing

import (
	"sync"

	"github.com/sarchlab/eventsim/hooking"
	"github.com/sarchlab/eventsim/sim"
)

// Collector is a hook that keeps records in memory.
type Collector struct {
	mu         sync.Mutex
	timeTeller sim.TimeTeller
	dispatches []DispatchRecord
	ops        []PrimitiveRecord
}

// NewCollector creates an empty Collector.
func NewCollector(timeTeller sim.TimeTeller) *Collector {
	return &Collector{timeTeller: timeTeller}
}

// Func records ctx.
func (c *Collector) Func(ctx hooking.HookCtx) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rec, ok := ParseDispatch(ctx); ok {
		c.dispatches = append(c.dispatches, rec)
		return
	}

	if rec, ok := ParsePrimitiveOp(ctx, c.timeTeller.Now()); ok {
		c.ops = append(c.ops, rec)
	}
}

// Dispatches returns a copy of the dispatches recorded so far.
func (c *Collector) Dispatches() []DispatchRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]DispatchRecord(nil), c.dispatches...)
}

// PrimitiveOps returns a copy of the primitive operations recorded so far.
func (c *Collector) PrimitiveOps() []PrimitiveRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]PrimitiveRecord(nil), c.ops...)
}
