package scenario

import (
	"github.com/sarchlab/eventsim/sim"
	"github.com/sarchlab/eventsim/simulation"
)

func init() {
	register(Scenario{
		Name:        "value-event",
		Description: "A process waits for a timeout that carries a value.",
		run:         runValueEvent,
	})

	register(Scenario{
		Name:        "value-process",
		Description: "A process waits for the value another process returns.",
		run:         runValueProcess,
	})

	register(Scenario{
		Name: "any-of",
		Description: "A process waits for the first of several events, " +
			"some of which never fire.",
		run: runAnyOf,
	})
}

func runValueEvent(s *simulation.Simulation, _ Config, out *transcript) error {
	engine := s.GetEngine()
	ev := sim.TimeoutWithValue(engine, 1, 42)

	engine.Process(func(p *sim.Process) {
		val := ev.Await(p)
		out.printf("[%.0f] val = %d\n", p.Now(), val)
	})

	return s.Run()
}

func runValueProcess(s *simulation.Simulation, _ Config, out *transcript) error {
	engine := s.GetEngine()

	producer := func() *sim.ValueEvent[int] {
		return sim.ProcessWithValue(engine, func(p *sim.Process) int {
			p.Wait(sim.TimeoutWithValue(engine, 1, 1))
			return 42
		})
	}

	engine.Process(func(p *sim.Process) {
		val := producer().Await(p)
		out.printf("[%.0f] val = %d\n", p.Now(), val)
	})

	return s.Run()
}

func runAnyOf(s *simulation.Simulation, _ Config, out *transcript) error {
	engine := s.GetEngine()

	engine.Process(func(p *sim.Process) {
		out.printf("[%.0f] 1\n", p.Now())

		p.Wait(engine.Timeout(1).Or(engine.Timeout(2)))
		out.printf("[%.0f] 2\n", p.Now())

		p.Wait(engine.Timeout(1).Or(engine.NewEvent()))
		out.printf("[%.0f] 3\n", p.Now())
	})

	return s.Run()
}
