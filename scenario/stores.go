package scenario

import (
	"github.com/sarchlab/eventsim/resources"
	"github.com/sarchlab/eventsim/sim"
	"github.com/sarchlab/eventsim/simulation"
)

func init() {
	register(Scenario{
		Name:        "store",
		Description: "A consumer waits for the value a producer puts later.",
		run:         runStore,
	})

	register(Scenario{
		Name: "filtered-store",
		Description: "A consumer waits for the first produced value that " +
			"is at least 5.",
		run: runFilteredStore,
	})

	register(Scenario{
		Name: "priority-store",
		Description: "Consumers with different priorities wait for values " +
			"that arrive one at a time.",
		run: runPriorityStore,
	})
}

func runStore(s *simulation.Simulation, _ Config, out *transcript) error {
	engine := s.GetEngine()
	store := resources.NewStore[int](engine, "Store")
	s.RegisterPrimitive(store)

	engine.Process(func(p *sim.Process) {
		p.Wait(engine.Timeout(3))
		p.Wait(store.Put(42))
	})

	engine.Process(func(p *sim.Process) {
		val := store.Get().Await(p)
		out.printf("[%.0f] val = %d\n", p.Now(), val)
	})

	return s.Run()
}

func runFilteredStore(s *simulation.Simulation, _ Config, out *transcript) error {
	engine := s.GetEngine()
	store := resources.NewFilteredStore[int](engine, "Store")
	s.RegisterPrimitive(store)

	engine.Process(func(p *sim.Process) {
		for i := 0; i < 10; i++ {
			p.Wait(engine.Timeout(1))
			p.Wait(store.Put(i))
		}
	})

	engine.Process(func(p *sim.Process) {
		val := store.Get(func(v int) bool { return v >= 5 }).Await(p)
		out.printf("[%.0f] val = %d\n", p.Now(), val)
	})

	return s.Run()
}

func runPriorityStore(s *simulation.Simulation, _ Config, out *transcript) error {
	engine := s.GetEngine()
	store := resources.NewPriorityStore[string](engine, "Counter")
	s.RegisterPrimitive(store)

	consumer := func(name string, priority int) {
		engine.Process(func(p *sim.Process) {
			out.printf("[%.0f] %s waits with priority %d\n",
				p.Now(), name, priority)

			item := store.Get(priority).Await(p)
			out.printf("[%.0f] %s got %s\n", p.Now(), name, item)
		})
	}

	consumer("low", 5)
	consumer("high", 1)
	consumer("mid", 3)

	engine.Process(func(p *sim.Process) {
		for _, item := range []string{"a", "b", "c"} {
			p.Wait(engine.Timeout(1))
			p.Wait(store.Put(item))
		}
	})

	return s.Run()
}
