// Command railsched solves and validates rolling-stock scheduling
// instances. One cobra subcommand per verb: solve, validate, version.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/obslog"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "railsched",
		Short: "Rolling-stock scheduling solver",
	}
	root.AddCommand(newSolveCommand(), newValidateCommand(), newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the railsched version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

// buildLogger returns a development logger writing human-readable
// output unless --json was passed, in which case it returns zap's JSON
// production encoder, matching the ambient-logging split
// theoremus-urban-solutions-gtfs-validator's cmd layer makes between
// human and machine consumption.
func buildLogger(jsonOutput bool) (obslog.Logger, error) {
	if jsonOutput {
		return obslog.NewProduction()
	}
	return obslog.NewDevelopment()
}

// loadConfig applies an optional YAML override file on top of the
// config the instance loader already derived from the input document's
// parameters object.
func loadConfig(base config.Config, overridePath string) (config.Config, error) {
	if overridePath == "" {
		return base, nil
	}
	return config.LoadYAMLOverride(overridePath, base)
}

// runID is a fresh correlation id for one invocation, logged alongside
// every structured entry so a solve's log lines and output document can
// be joined later.
func runID() zap.Field {
	return zap.String("runID", uuid.New().String())
}
