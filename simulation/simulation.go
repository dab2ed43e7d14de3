// Package simulation assembles an engine with the services that observe it:
// logging, trace recording, and the monitor.
package simulation

import (
	"github.com/sarchlab/eventsim/datarecording"
	"github.com/sarchlab/eventsim/monitoring"
	"github.com/sarchlab/eventsim/resources"
	"github.com/sarchlab/eventsim/sim"
	"github.com/sarchlab/eventsim/tracing"
)

// A Simulation owns an engine and the primitives registered with it.
type Simulation struct {
	id     string
	engine *sim.SerialEngine

	logger       *tracing.EventLogger
	dataRecorder datarecording.DataRecorder
	tracer       *tracing.DBTracer
	monitor      *monitoring.Monitor
	monitorURL   string

	primitives    []resources.Observable
	primNameIndex map[string]int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() *sim.SerialEngine {
	return s.engine
}

// GetDataRecorder returns the data recorder, or nil if tracing is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetTracer returns the database tracer, or nil if tracing is off.
func (s *Simulation) GetTracer() *tracing.DBTracer {
	return s.tracer
}

// GetMonitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the address of the monitor, or "" if monitoring is off.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// RegisterPrimitive registers a primitive with the simulation and attaches
// the logger, the tracer, and the monitor to it.
func (s *Simulation) RegisterPrimitive(p resources.Observable) {
	name := p.Name()
	if _, found := s.primNameIndex[name]; found {
		panic("primitive " + name + " already registered")
	}

	s.primitives = append(s.primitives, p)
	s.primNameIndex[name] = len(s.primitives) - 1

	if s.logger != nil {
		tracing.CollectTrace(p, s.logger)
	}

	if s.tracer != nil {
		tracing.CollectTrace(p, s.tracer)
	}

	if s.monitor != nil {
		s.monitor.RegisterPrimitive(p)
	}
}

// Primitives returns the registered primitives in registration order.
func (s *Simulation) Primitives() []resources.Observable {
	return s.primitives
}

// GetPrimitiveByName returns the primitive with the given name, or nil.
func (s *Simulation) GetPrimitiveByName(name string) resources.Observable {
	i, found := s.primNameIndex[name]
	if !found {
		return nil
	}

	return s.primitives[i]
}

// Run runs the engine until no trigger is left.
func (s *Simulation) Run() error {
	return s.engine.Run()
}

// RunUntil runs the engine up to and including time t.
func (s *Simulation) RunUntil(t sim.VTimeInSec) error {
	return s.engine.RunUntil(t)
}

// Terminate ends the stalled processes, flushes the trace, and stops the
// monitor.
func (s *Simulation) Terminate() {
	s.engine.Close()

	if s.tracer != nil {
		s.tracer.Terminate()
	}

	if s.dataRecorder != nil {
		_ = s.dataRecorder.Close()
	}

	if s.monitor != nil {
		s.monitor.StopServer()
	}
}
