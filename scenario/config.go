package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a scenario configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid scenario config")

// Config holds the parameters of the configurable scenarios.
type Config struct {
	Clocks  ClocksConfig  `yaml:"clocks"`
	Carwash CarwashConfig `yaml:"carwash"`
}

// ClockConfig describes one clock of the clocks scenario.
type ClockConfig struct {
	Name   string  `yaml:"name"`
	Period float64 `yaml:"period"`
}

// ClocksConfig configures the clocks scenario.
type ClocksConfig struct {
	Clocks []ClockConfig `yaml:"clocks"`
	Until  float64       `yaml:"until"`
}

// CarwashConfig configures the carwash scenario.
//
// Cars after the initial ones arrive after the intervals in Arrivals, which
// repeat. If Arrivals is empty, intervals are drawn uniformly from
// [ArrivalMin, ArrivalMax] with Seed.
type CarwashConfig struct {
	InitialCars int       `yaml:"initial_cars"`
	Machines    uint64    `yaml:"machines"`
	WashTime    float64   `yaml:"wash_time"`
	Arrivals    []float64 `yaml:"arrivals"`
	ArrivalMin  int       `yaml:"arrival_min"`
	ArrivalMax  int       `yaml:"arrival_max"`
	Seed        int64     `yaml:"seed"`
	Until       float64   `yaml:"until"`
}

// DefaultConfig returns the configuration the golden transcripts use.
func DefaultConfig() Config {
	return Config{
		Clocks: ClocksConfig{
			Clocks: []ClockConfig{
				{Name: "slow", Period: 2},
				{Name: "fast", Period: 1},
			},
			Until: 5,
		},
		Carwash: CarwashConfig{
			InitialCars: 4,
			Machines:    2,
			WashTime:    5,
			Arrivals:    []float64{5, 3, 7, 4, 6},
			ArrivalMin:  3,
			ArrivalMax:  7,
			Seed:        1,
			Until:       20,
		},
	}
}

// LoadConfig reads a YAML configuration. Fields missing from r keep their
// default values; unknown fields are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	data, err := io.ReadAll(r)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate reports the first problem of the configuration.
func (c Config) Validate() error {
	for _, clock := range c.Clocks.Clocks {
		if clock.Period <= 0 {
			return fmt.Errorf("%w: clock %q has period %v",
				ErrInvalidConfig, clock.Name, clock.Period)
		}
	}

	if c.Clocks.Until < 0 {
		return fmt.Errorf("%w: clocks run until %v", ErrInvalidConfig,
			c.Clocks.Until)
	}

	w := c.Carwash

	switch {
	case w.Machines == 0:
		return fmt.Errorf("%w: carwash needs a machine", ErrInvalidConfig)
	case w.WashTime < 0:
		return fmt.Errorf("%w: negative wash time", ErrInvalidConfig)
	case w.Until < 0:
		return fmt.Errorf("%w: carwash runs until %v", ErrInvalidConfig, w.Until)
	case len(w.Arrivals) == 0 &&
		(w.ArrivalMin < 0 || w.ArrivalMax < w.ArrivalMin || w.ArrivalMax == 0):
		return fmt.Errorf("%w: arrival range [%d, %d]",
			ErrInvalidConfig, w.ArrivalMin, w.ArrivalMax)
	}

	for _, a := range w.Arrivals {
		if a <= 0 {
			return fmt.Errorf("%w: arrival interval %v is not positive",
				ErrInvalidConfig, a)
		}
	}

	return nil
}
