package scenario

import (
	"github.com/sarchlab/eventsim/sim"
	"github.com/sarchlab/eventsim/simulation"
)

func init() {
	register(Scenario{
		Name: "pingpong",
		Description: "Two parties pass a ball back and forth. Every ball " +
			"carries the event the sender waits on next.",
		run: runPingPong,
	})
}

type ball struct {
	reply *sim.ValueEvent[ball]
}

func runPingPong(s *simulation.Simulation, _ Config, out *transcript) error {
	engine := s.GetEngine()

	party := func(name string, mine *sim.ValueEvent[ball], delay sim.VTimeInSec) {
		engine.Process(func(p *sim.Process) {
			for {
				theirs := mine.Await(p).reply
				out.printf("[%.0f] %s\n", p.Now(), name)

				p.Wait(engine.Timeout(delay))

				mine = sim.NewValueEvent[ball](engine)
				if err := theirs.Trigger(ball{reply: mine}); err != nil {
					panic(err)
				}
			}
		})
	}

	pong := sim.NewValueEvent[ball](engine)
	ping := sim.TimeoutWithValue(engine, 0, ball{reply: pong})

	party("ping", ping, 1)
	party("pong", pong, 2)

	return s.RunUntil(8)
}
