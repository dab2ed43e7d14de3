// Package sim is a deterministic discrete event simulation kernel.
//
// A SerialEngine owns the virtual clock and a queue of triggers ordered by
// time and by the order in which they were scheduled. Events fire once;
// continuations registered on an event run when the engine dispatches it.
// Processes are sequential functions that suspend on events and resume inside
// the dispatch of the event they wait for. Only one process body runs at any
// moment, so simulation state needs no locking.
package sim

import (
	"math"
	"time"

	"github.com/sarchlab/eventsim/hooking"
)

// VTimeInSec is a point in virtual time.
type VTimeInSec float64

// Seconds converts a duration into virtual time, one unit per second.
func Seconds(d time.Duration) VTimeInSec {
	return VTimeInSec(d.Seconds())
}

// Duration converts t into a duration, rounded to the nanosecond.
func (t VTimeInSec) Duration() time.Duration {
	return time.Duration(math.Round(float64(t) * float64(time.Second)))
}

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	Now() VTimeInSec
}

// An Engine keeps a discrete event simulation running.
type Engine interface {
	hooking.Hookable
	TimeTeller

	// Run dispatches triggers until none is left.
	Run() error

	// RunUntil dispatches every trigger due at or before t and then sets the
	// time to t.
	RunUntil(t VTimeInSec) error

	// Pause blocks dispatching until Continue is called.
	Pause()

	// Continue resumes a paused engine.
	Continue()
}

// HookPosBeforeEvent fires before the continuations of an event run.
var HookPosBeforeEvent = &hooking.HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent fires after the continuations of an event ran.
var HookPosAfterEvent = &hooking.HookPos{Name: "AfterEvent"}

// Dispatch is the hook detail of HookPosBeforeEvent and HookPosAfterEvent.
type Dispatch struct {
	Time      VTimeInSec
	Seq       uint64
	Callbacks int

	// Late is set when a single continuation registered after the event was
	// processed is being delivered.
	Late bool
}
