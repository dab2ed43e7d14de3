// Package scenario holds runnable models built on the simulation kernel.
// Every scenario writes a transcript of what happens to an io.Writer.
package scenario

import (
	"fmt"
	"io"
	"sort"

	"github.com/sarchlab/eventsim/simulation"
)

// A Scenario is a named model that can run in a simulation.
type Scenario struct {
	Name        string
	Description string

	run func(s *simulation.Simulation, cfg Config, out *transcript) error
}

// Run builds the model in s and runs it. The transcript goes to out.
func (sc Scenario) Run(
	s *simulation.Simulation,
	cfg Config,
	out io.Writer,
) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	t := &transcript{out: out}
	if err := sc.run(s, cfg, t); err != nil {
		return err
	}

	return t.err
}

var registry = map[string]Scenario{}

func register(sc Scenario) {
	if _, found := registry[sc.Name]; found {
		panic("scenario " + sc.Name + " already registered")
	}

	registry[sc.Name] = sc
}

// All returns every scenario, sorted by name.
func All() []Scenario {
	all := make([]Scenario, 0, len(registry))
	for _, sc := range registry {
		all = append(all, sc)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})

	return all
}

// Find returns the scenario called name.
func Find(name string) (Scenario, bool) {
	sc, found := registry[name]
	return sc, found
}

// transcript keeps the first write error so that models can print freely.
type transcript struct {
	out io.Writer
	err error
}

func (t *transcript) printf(format string, args ...any) {
	if t.err != nil {
		return
	}

	_, t.err = fmt.Fprintf(t.out, format, args...)
}
