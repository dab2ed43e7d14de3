package scenario

import (
	"math/rand"

	"github.com/sarchlab/eventsim/resources"
	"github.com/sarchlab/eventsim/sim"
	"github.com/sarchlab/eventsim/simulation"
)

func init() {
	register(Scenario{
		Name: "carwash",
		Description: "Cars queue for a limited number of washing machines " +
			"and leave once washed.",
		run: runCarwash,
	})
}

type carwash struct {
	engine   *sim.SerialEngine
	machines *resources.Resource
	washTime sim.VTimeInSec
	out      *transcript
}

func runCarwash(s *simulation.Simulation, cfg Config, out *transcript) error {
	conf := cfg.Carwash
	engine := s.GetEngine()

	w := &carwash{
		engine:   engine,
		machines: resources.NewResource(engine, "Machines", conf.Machines),
		washTime: sim.VTimeInSec(conf.WashTime),
		out:      out,
	}
	s.RegisterPrimitive(w.machines)

	nextArrival := arrivalIntervals(conf)

	engine.Process(func(p *sim.Process) {
		for id := 1; ; id++ {
			if id > conf.InitialCars {
				p.Wait(engine.Timeout(nextArrival()))
			}

			w.car(id)
		}
	})

	return s.RunUntil(sim.VTimeInSec(conf.Until))
}

func (w *carwash) car(id int) {
	w.engine.Process(func(p *sim.Process) {
		w.out.printf("[%4.1f] Car %d arrives\n", p.Now(), id)

		p.Wait(w.machines.Request())
		w.out.printf("[%4.1f] Car %d enters\n", p.Now(), id)

		p.Wait(w.wash(id))
		w.out.printf("[%4.1f] Car %d leaves\n", p.Now(), id)

		w.machines.Release()
	})
}

func (w *carwash) wash(id int) *sim.Process {
	return w.engine.Process(func(p *sim.Process) {
		p.Wait(w.engine.Timeout(w.washTime))
		w.out.printf("[%4.1f] Car %d washed\n", p.Now(), id)
	})
}

func arrivalIntervals(conf CarwashConfig) func() sim.VTimeInSec {
	if len(conf.Arrivals) > 0 {
		next := 0

		return func() sim.VTimeInSec {
			interval := conf.Arrivals[next%len(conf.Arrivals)]
			next++

			return sim.VTimeInSec(interval)
		}
	}

	rng := rand.New(rand.NewSource(conf.Seed))
	span := conf.ArrivalMax - conf.ArrivalMin + 1

	return func() sim.VTimeInSec {
		return sim.VTimeInSec(conf.ArrivalMin + rng.Intn(span))
	}
}
