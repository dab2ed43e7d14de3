package tracing

import (
	"github.com/sarchlab/eventsim/hooking"
	"github.com/sarchlab/eventsim/resources"
	"github.com/sarchlab/eventsim/sim"
)

// UtilizationTracer integrates the number of units of a resource in use over
// virtual time. It must be attached before the resource grants its first
// request.
type UtilizationTracer struct {
	timeTeller sim.TimeTeller
	res        *resources.Resource

	inUse    uint64
	last     sim.VTimeInSec
	busyTime sim.VTimeInSec
}

// NewUtilizationTracer creates a tracer and attaches it to res.
func NewUtilizationTracer(
	timeTeller sim.TimeTeller,
	res *resources.Resource,
) *UtilizationTracer {
	t := &UtilizationTracer{
		timeTeller: timeTeller,
		res:        res,
		last:       timeTeller.Now(),
	}

	CollectTrace(res, t)

	return t
}

// Func updates the integral on grants and releases.
func (t *UtilizationTracer) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case resources.HookPosRequest:
		t.advance()
		t.inUse++
	case resources.HookPosRelease:
		t.advance()
		if t.inUse > 0 {
			t.inUse--
		}
	}
}

func (t *UtilizationTracer) advance() {
	now := t.timeTeller.Now()
	t.busyTime += sim.VTimeInSec(t.inUse) * (now - t.last)
	t.last = now
}

// BusyTime returns the unit-time spent in use up to now.
func (t *UtilizationTracer) BusyTime() sim.VTimeInSec {
	t.advance()
	return t.busyTime
}

// Utilization returns the fraction of the capacity used since time zero.
func (t *UtilizationTracer) Utilization() float64 {
	now := t.timeTeller.Now()
	if now == 0 || t.res.Capacity() == 0 {
		return 0
	}

	return float64(t.BusyTime()) / (float64(now) * float64(t.res.Capacity()))
}
