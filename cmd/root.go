// Package cmd provides the command-line interface of eventsim.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

const envPrefix = "EVENTSIM_"

// NewRootCmd creates the eventsim command with all its subcommands.
func NewRootCmd() *cobra.Command {
	var logLevel, logFormat string

	rootCmd := &cobra.Command{
		Use:   "eventsim",
		Short: "eventsim runs discrete-event simulation scenarios.",
		Long: `eventsim runs discrete-event simulation scenarios built on a ` +
			`deterministic simulation kernel. Scenarios print a transcript ` +
			`and can record traces or serve a live monitor.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}

			logrus.SetLevel(level)

			switch logFormat {
			case "text":
				logrus.SetFormatter(&logrus.TextFormatter{})
			case "json":
				logrus.SetFormatter(&logrus.JSONFormatter{})
			default:
				return fmt.Errorf("unknown log format %q", logFormat)
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level",
		envOr("LOG_LEVEL", "warn"),
		"Log level (trace, debug, info, warn, error).")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format",
		envOr("LOG_FORMAT", "text"), "Log format (text, json).")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newTraceCmd())

	return rootCmd
}

// Execute loads the .env file, runs the root command, and exits. Exit
// handlers, such as the ones flushing trace files, run before the process
// ends.
func Execute() {
	loadDotEnv(".env")

	err := NewRootCmd().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func loadDotEnv(path string) {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Warn("Cannot load " + path)
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		return v
	}

	return fallback
}
