package tracing

import (
	"sync"

	"github.com/sarchlab/eventsim/datarecording"
	"github.com/sarchlab/eventsim/hooking"
	"github.com/sarchlab/eventsim/sim"
)

// Tables written by a DBTracer.
const (
	DispatchTable  = "dispatch"
	PrimitiveTable = "primitive_op"
)

// DBTracer is a hook that stores dispatches and primitive operations through
// a DataRecorder. Attach it to the engine to record dispatches and to
// primitives to record their operations.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder

	startTime, endTime sim.VTimeInSec
	count              int
}

// NewDBTracer creates a DBTracer and the tables it writes to.
func NewDBTracer(
	timeTeller sim.TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable(DispatchTable, DispatchRecord{})
	dataRecorder.CreateTable(PrimitiveTable, PrimitiveRecord{})

	return &DBTracer{
		timeTeller: timeTeller,
		backend:    dataRecorder,
		endTime:    -1,
	}
}

// SetTimeRange limits recording to [startTime, endTime]. A negative end
// time leaves the range open.
func (t *DBTracer) SetTimeRange(startTime, endTime sim.VTimeInSec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = startTime
	t.endTime = endTime
}

// Func records ctx if it is a dispatch or a primitive operation.
func (t *DBTracer) Func(ctx hooking.HookCtx) {
	now := t.timeTeller.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if now < t.startTime || (t.endTime >= 0 && now > t.endTime) {
		return
	}

	if rec, ok := ParseDispatch(ctx); ok {
		t.backend.InsertData(DispatchTable, rec)
		t.count++

		return
	}

	if rec, ok := ParsePrimitiveOp(ctx, now); ok {
		t.backend.InsertData(PrimitiveTable, rec)
		t.count++
	}
}

// Count returns the number of records written.
func (t *DBTracer) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.count
}

// Terminate flushes the records.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.Flush()
}
