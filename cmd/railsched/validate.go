package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/railsched/railsched/greedy"
	"github.com/railsched/railsched/ioschema"
)

func newValidateCommand() *cobra.Command {
	var inputPath string
	var jsonLogs bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load an instance and check it builds a structurally consistent schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(jsonLogs)
			if err != nil {
				return err
			}

			in, err := os.Open(inputPath)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer in.Close()

			inst, err := ioschema.LoadInstance(in, log)
			if err != nil {
				return fmt.Errorf("load instance: %w", err)
			}

			sched, err := greedy.Solve(inst.Network, inst.VehicleTypes, &inst.Config)
			if err != nil {
				return fmt.Errorf("build schedule: %w", err)
			}
			if err := sched.VerifyConsistency(); err != nil {
				return fmt.Errorf("schedule fails consistency check: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input instance JSON file (required)")
	cmd.Flags().BoolVar(&jsonLogs, "json", false, "Emit structured JSON logs instead of human-readable ones")
	cmd.MarkFlagRequired("input")

	return cmd
}
