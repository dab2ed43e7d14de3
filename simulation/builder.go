package simulation

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/eventsim/datarecording"
	"github.com/sarchlab/eventsim/idgen"
	"github.com/sarchlab/eventsim/monitoring"
	"github.com/sarchlab/eventsim/sim"
	"github.com/sarchlab/eventsim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn      bool
	monitorPort    int
	openBrowser    bool
	tracingOn      bool
	outputFileName string
	logger         logrus.FieldLogger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		monitorOn: true,
	}
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitor in a browser once it starts.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithTracing records dispatches and primitive operations in a SQLite
// database.
func (b Builder) WithTracing() Builder {
	b.tracingOn = true
	return b
}

// WithOutputFileName sets the file name of the trace database, without the
// extension.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithLogger logs every dispatch and primitive operation to logger at debug
// level.
func (b Builder) WithLogger(logger logrus.FieldLogger) Builder {
	b.logger = logger
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && (b.monitorPort != 0 || b.openBrowser) {
		panic("monitor options cannot be set when monitoring is disabled")
	}

	if !b.tracingOn && b.outputFileName != "" {
		panic("output file name cannot be set when tracing is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		id:            idgen.NewXID(),
		engine:        sim.NewSerialEngine(),
		primNameIndex: make(map[string]int),
	}

	if b.logger != nil {
		s.logger = tracing.NewEventLogger(b.logger, s.engine)
		s.engine.AcceptHook(s.logger)
	}

	if b.tracingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "eventsim_" + s.id
		}

		s.dataRecorder = datarecording.New(outputPath)
		s.tracer = tracing.NewDBTracer(s.engine, s.dataRecorder)
		s.engine.AcceptHook(s.tracer)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor().
			WithPortNumber(b.monitorPort).
			WithOpenBrowser(b.openBrowser)
		s.monitor.RegisterEngine(s.engine)
		s.monitorURL = s.monitor.StartServer()
	}

	return s
}
