package sim

import "runtime"

// A Process is a sequential piece of simulation logic that suspends on events.
//
// Each process body runs on its own goroutine, but control is handed over
// explicitly: the goroutine that resumes a process blocks until the process
// suspends again or returns. At most one body makes progress at any moment.
//
// The embedded event is the terminal event of the process. It fires when the
// body returns, so other processes can wait for completion.
type Process struct {
	*Event

	resume chan struct{}
	yield  chan struct{}

	running   bool
	killed    bool
	waitingOn *Event

	panicked   bool
	panicValue any
}

// Process starts fn as a process. The body runs right away until it first
// suspends, then Process returns.
func (e *SerialEngine) Process(fn func(p *Process)) *Process {
	return e.spawn(func(p *Process) (any, bool) {
		fn(p)
		return nil, false
	})
}

// ProcessWithValue starts fn as a process whose terminal event carries the
// value fn returns.
func ProcessWithValue[T any](
	engine *SerialEngine,
	fn func(p *Process) T,
) *ValueEvent[T] {
	p := engine.spawn(func(p *Process) (any, bool) {
		return fn(p), true
	})

	return &ValueEvent[T]{Event: p.Event}
}

func (e *SerialEngine) spawn(body func(p *Process) (any, bool)) *Process {
	p := &Process{
		Event:  newEvent(e, "process"),
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
	}
	e.processes[p.ID()] = p

	go p.run(body)
	p.step()

	return p
}

func (p *Process) run(body func(p *Process) (any, bool)) {
	defer func() {
		if r := recover(); r != nil {
			p.panicked = true
			p.panicValue = r
		}

		delete(p.engine.processes, p.ID())
		p.running = false
		p.yield <- struct{}{}
	}()

	<-p.resume

	value, hasValue := body(p)
	if p.Event.Pending() {
		_ = p.Event.trigger(value, hasValue)
	}
}

// step hands control to the process and blocks until it gives it back.
func (p *Process) step() {
	p.running = true
	p.resume <- struct{}{}
	<-p.yield

	if p.panicked {
		p.panicked = false
		panic(p.panicValue)
	}
}

func (p *Process) kill() {
	p.killed = true
	p.running = true
	p.resume <- struct{}{}
	<-p.yield
}

// Wait suspends the process until ev is dispatched. It returns at once if ev
// was already processed. Waiting on an aborted event suspends the process
// forever. Wait must be called from the body of p.
func (p *Process) Wait(ev Awaitable) {
	if !p.running {
		panic("sim: Wait called outside of the process body")
	}

	target := ev.AsEvent()
	if target.Processed() {
		return
	}

	p.waitingOn = target
	target.AddCallback(func(*Event) { p.step() })

	p.running = false
	p.yield <- struct{}{}
	<-p.resume

	if p.killed {
		runtime.Goexit()
	}

	p.waitingOn = nil
}

// WaitingOn returns the event the process is suspended on, or nil.
func (p *Process) WaitingOn() *Event {
	return p.waitingOn
}

// Now returns the current virtual time of the engine of the process.
func (p *Process) Now() VTimeInSec {
	return p.engine.Now()
}
