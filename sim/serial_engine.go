package sim

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/sarchlab/eventsim/hooking"
	"github.com/sarchlab/eventsim/idgen"
)

// A SerialEngine dispatches triggers one after another in (time, sequence)
// order.
//
// Primitives and processes are bound to exactly one engine. Every engine has
// its own clock, sequence counter, and ID generator, so independent runs do
// not influence each other.
type SerialEngine struct {
	*hooking.HookableBase

	timeLock sync.RWMutex
	now      VTimeInSec

	queue   *triggerQueue
	nextSeq uint64
	ids     idgen.Generator

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex

	processes map[idgen.ID]*Process
	closed    bool
}

// NewSerialEngine creates a SerialEngine at time 0.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		HookableBase: hooking.NewHookableBase(),
		queue:        newTriggerQueue(),
		ids:          idgen.New(),
		processes:    make(map[idgen.ID]*Process),
	}
}

// Now returns the current virtual time.
func (e *SerialEngine) Now() VTimeInSec {
	return e.readNow()
}

func (e *SerialEngine) readNow() VTimeInSec {
	e.timeLock.RLock()
	t := e.now
	e.timeLock.RUnlock()

	return t
}

func (e *SerialEngine) writeNow(t VTimeInSec) {
	e.timeLock.Lock()
	e.now = t
	e.timeLock.Unlock()
}

// NewEvent creates a pending event.
func (e *SerialEngine) NewEvent() *Event {
	return newEvent(e, "event")
}

// Timeout creates an event that fires delay time units from now. The delay
// must be finite and not negative.
func (e *SerialEngine) Timeout(delay VTimeInSec) *Event {
	if !(delay >= 0) || math.IsInf(float64(delay), 1) {
		panic(fmt.Sprintf("sim: negative timeout delay %v", delay))
	}

	evt := newEvent(e, "timeout")
	e.schedule(evt, delay)

	return evt
}

// PendingTriggers returns the number of queued triggers.
func (e *SerialEngine) PendingTriggers() int {
	return e.queue.Len()
}

// Peek returns the time of the next trigger, if any.
func (e *SerialEngine) Peek() (VTimeInSec, bool) {
	next := e.queue.Peek()
	if next == nil {
		return 0, false
	}

	return next.time, true
}

func (e *SerialEngine) schedule(evt *Event, delay VTimeInSec) {
	evt.time = e.readNow() + delay
	e.push(&trigger{time: evt.time, event: evt})
}

func (e *SerialEngine) scheduleLate(evt *Event, cb func(*Event)) {
	e.push(&trigger{time: e.readNow(), event: evt, late: cb})
}

func (e *SerialEngine) push(t *trigger) {
	e.nextSeq++
	t.seq = e.nextSeq
	e.queue.Push(t)
}

// Run dispatches triggers until the queue is empty.
func (e *SerialEngine) Run() error {
	return e.run(func(VTimeInSec) bool { return true })
}

// RunUntil dispatches every trigger due at or before t, leaves the later ones
// queued, and sets the time to t.
func (e *SerialEngine) RunUntil(t VTimeInSec) error {
	now := e.readNow()
	if t < now {
		return fmt.Errorf("%w: run until %v, now %v", ErrTimeRewind, t, now)
	}

	err := e.run(func(next VTimeInSec) bool { return next <= t })
	if err != nil {
		return err
	}

	e.writeNow(t)

	return nil
}

func (e *SerialEngine) run(due func(VTimeInSec) bool) error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	for {
		next := e.queue.Peek()
		if next == nil || !due(next.time) {
			return nil
		}

		e.dispatchNext()
	}
}

// Step dispatches a single trigger. It returns false if there was none.
func (e *SerialEngine) Step() bool {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	if e.closed {
		return false
	}

	return e.dispatchNext()
}

func (e *SerialEngine) dispatchNext() bool {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	t := e.queue.Pop()
	if t == nil {
		return false
	}

	now := e.readNow()
	if t.time < now {
		panic(fmt.Sprintf(
			"sim: cannot dispatch %s @ %v in the past, now %v",
			t.event, t.time, now,
		))
	}

	e.writeNow(t.time)

	if t.late != nil {
		e.dispatchLate(t)
		return true
	}

	evt := t.event

	switch evt.state {
	case StateAborted, StateProcessed:
		return true
	case StatePending:
		evt.state = StateTriggered
	}

	evt.state = StateProcessed
	callbacks := evt.callbacks
	evt.callbacks = nil

	detail := Dispatch{Time: t.time, Seq: t.seq, Callbacks: len(callbacks)}
	hooking.Fire(e, HookPosBeforeEvent, evt, detail)

	for _, cb := range callbacks {
		cb(evt)
	}

	hooking.Fire(e, HookPosAfterEvent, evt, detail)

	return true
}

func (e *SerialEngine) dispatchLate(t *trigger) {
	detail := Dispatch{Time: t.time, Seq: t.seq, Callbacks: 1, Late: true}

	hooking.Fire(e, HookPosBeforeEvent, t.event, detail)
	t.late(t.event)
	hooking.Fire(e, HookPosAfterEvent, t.event, detail)
}

// Pause prevents the engine from dispatching more triggers until Continue is
// called. It must not be called from a process or a continuation.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the engine to dispatch triggers again.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// Close ends the goroutines of processes that are still suspended. Their
// events stay pending. A closed engine does not run anymore.
func (e *SerialEngine) Close() {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	if e.closed {
		return
	}

	e.closed = true

	ids := make([]idgen.ID, 0, len(e.processes))
	for id := range e.processes {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		e.processes[id].kill()
	}
}

// LiveProcesses returns the number of processes that started and have not
// returned yet.
func (e *SerialEngine) LiveProcesses() int {
	return len(e.processes)
}

var _ Engine = (*SerialEngine)(nil)
