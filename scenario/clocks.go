package scenario

import (
	"time"

	"github.com/sarchlab/eventsim/sim"
	"github.com/sarchlab/eventsim/simulation"
)

func init() {
	register(Scenario{
		Name:        "clocks",
		Description: "Clocks tick with different periods.",
		run:         runClocks,
	})

	register(Scenario{
		Name: "clocks-units",
		Description: "Clocks tick with periods given as durations and " +
			"report the time in seconds.",
		run: runClocksWithUnits,
	})
}

func runClocks(s *simulation.Simulation, cfg Config, out *transcript) error {
	engine := s.GetEngine()

	for _, clock := range cfg.Clocks.Clocks {
		period := sim.VTimeInSec(clock.Period)

		engine.Process(func(p *sim.Process) {
			for {
				out.printf("[%.0f] %s\n", p.Now(), clock.Name)
				p.Wait(engine.Timeout(period))
			}
		})
	}

	return s.RunUntil(sim.VTimeInSec(cfg.Clocks.Until))
}

func runClocksWithUnits(
	s *simulation.Simulation,
	cfg Config,
	out *transcript,
) error {
	engine := s.GetEngine()

	for _, clock := range cfg.Clocks.Clocks {
		period := time.Duration(clock.Period * float64(time.Second))

		engine.Process(func(p *sim.Process) {
			for {
				out.printf("[%v] %s\n", p.Now().Duration(), clock.Name)
				p.Wait(engine.Timeout(sim.Seconds(period)))
			}
		})
	}

	until := time.Duration(cfg.Clocks.Until * float64(time.Second))

	return s.RunUntil(sim.Seconds(until))
}
