package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/eventsim/scenario"
	"github.com/sarchlab/eventsim/simulation"
)

type runOptions struct {
	configFile  string
	seed        int64
	trace       bool
	traceFile   string
	monitor     bool
	monitorPort int
	openBrowser bool
	keepAlive   bool
	logEvents   bool
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}

	runCmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Run a scenario and print its transcript.",
		Long: "Run a scenario and print its transcript. `eventsim list` " +
			"shows the available scenarios.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, found := scenario.Find(args[0])
			if !found {
				return fmt.Errorf("unknown scenario %q", args[0])
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("seed") {
				cfg.Carwash.Seed = opts.seed
				cfg.Carwash.Arrivals = nil
			}

			return opts.run(cmd, sc, cfg)
		},
	}

	flags := runCmd.Flags()
	flags.StringVar(&opts.configFile, "config", envOr("CONFIG", ""),
		"YAML file with scenario parameters.")
	flags.Int64Var(&opts.seed, "seed", 0,
		"Seed for random carwash arrivals. Replaces the fixed arrivals.")
	flags.BoolVar(&opts.trace, "trace", false,
		"Record dispatches and primitive operations in a SQLite file.")
	flags.StringVar(&opts.traceFile, "trace-file", envOr("TRACE_FILE", ""),
		"Trace file name without extension. Implies --trace.")
	flags.BoolVar(&opts.monitor, "monitor", false,
		"Serve the monitor while the scenario runs.")
	flags.IntVar(&opts.monitorPort, "monitor-port",
		envIntOr("MONITOR_PORT", 0),
		"Port of the monitor. A random port is used if 0.")
	flags.BoolVar(&opts.openBrowser, "open-browser", false,
		"Open the monitor in a browser.")
	flags.BoolVar(&opts.keepAlive, "keep-alive", false,
		"Keep the monitor serving after the run until interrupted.")
	flags.BoolVar(&opts.logEvents, "log-events", false,
		"Log every dispatch and primitive operation at debug level.")

	return runCmd
}

func (o runOptions) loadConfig() (scenario.Config, error) {
	if o.configFile == "" {
		return scenario.DefaultConfig(), nil
	}

	f, err := os.Open(o.configFile)
	if err != nil {
		return scenario.Config{}, err
	}
	defer f.Close()

	return scenario.LoadConfig(f)
}

func (o runOptions) builder() simulation.Builder {
	b := simulation.MakeBuilder()

	if o.monitor {
		b = b.WithMonitorPort(o.monitorPort)
		if o.openBrowser {
			b = b.WithBrowser()
		}
	} else {
		b = b.WithoutMonitoring()
	}

	if o.trace || o.traceFile != "" {
		b = b.WithTracing()
		if o.traceFile != "" {
			b = b.WithOutputFileName(o.traceFile)
		}
	}

	if o.logEvents {
		b = b.WithLogger(logrus.StandardLogger())
	}

	return b
}

func (o runOptions) run(
	cmd *cobra.Command,
	sc scenario.Scenario,
	cfg scenario.Config,
) error {
	s := o.builder().Build()
	defer s.Terminate()

	logrus.WithFields(logrus.Fields{
		"scenario": sc.Name,
		"id":       s.ID(),
	}).Info("Running scenario")

	if err := sc.Run(s, cfg, cmd.OutOrStdout()); err != nil {
		return err
	}

	logrus.WithField("now", s.GetEngine().Now()).Info("Scenario finished")

	if o.monitor && o.keepAlive {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		logrus.WithField("url", s.MonitorURL()).
			Warn("Monitor kept alive, press Ctrl+C to exit")
		<-ctx.Done()
	}

	return nil
}

func envIntOr(key string, fallback int) int {
	v := envOr(key, "")
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("variable", envPrefix+key).
			Warn("Ignoring non-integer environment variable")

		return fallback
	}

	return n
}
