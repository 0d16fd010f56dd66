package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/railsched/railsched/greedy"
	"github.com/railsched/railsched/ioschema"
	"github.com/railsched/railsched/localsearch"
	"github.com/railsched/railsched/metrics"
	"github.com/railsched/railsched/mincostflow"
	"github.com/railsched/railsched/objective"
	"github.com/railsched/railsched/obslog"
	"github.com/railsched/railsched/schedule"
)

func newSolveCommand() *cobra.Command {
	var (
		inputPath    string
		outputPath   string
		configPath   string
		algorithm    string
		maxRounds    int
		parallelism  int
		jsonLogs     bool
		skipLocalSearch bool
		metricsAddr  string
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Load an instance, build an initial schedule, improve it, and write the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(jsonLogs)
			if err != nil {
				return err
			}
			run := runID()
			log = log.With(run)

			in, err := os.Open(inputPath)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer in.Close()

			start := time.Now()
			inst, err := ioschema.LoadInstance(in, log)
			if err != nil {
				return fmt.Errorf("load instance: %w", err)
			}

			cfg, err := loadConfig(inst.Config, configPath)
			if err != nil {
				return fmt.Errorf("load config override: %w", err)
			}
			inst.Config = cfg

			sched, err := buildInitial(algorithm, inst, log)
			if err != nil {
				return fmt.Errorf("build initial schedule: %w", err)
			}

			obj := objective.Standard(inst.Config)

			reg := prometheus.NewRegistry()
			mc := metrics.NewCollector(reg)
			if metricsAddr != "" {
				go serveMetrics(log.Zap(), metricsAddr, reg)
			}

			if !skipLocalSearch {
				var improver localsearch.Improver = localsearch.Minimizer{Objective: obj, Metrics: mc}
				if parallelism > 1 {
					improver = localsearch.TakeAnyParallelRecursion{Objective: obj, Width: parallelism, Metrics: mc}
				}
				sched, _, err = localsearch.Run(log.Zap(), mc, improver, obj, sched, maxRounds)
				if err != nil {
					return fmt.Errorf("local search: %w", err)
				}
			}

			value := obj.Evaluate(sched)
			obj.Print(log.Zap(), value)

			hostname, _ := os.Hostname()
			info := ioschema.RunInfo{
				RunningTime:     time.Since(start),
				NumberOfThreads: parallelism,
				Timestamp:       time.Now().UTC(),
				Hostname:        hostname,
			}

			out := cmd.OutOrStdout()
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				out = f
			}
			return ioschema.WriteResult(out, sched, value, info)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input instance JSON file (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config override file")
	cmd.Flags().StringVar(&algorithm, "algorithm", "mincostflow", "Initial construction algorithm: mincostflow or greedy")
	cmd.Flags().IntVar(&maxRounds, "max-rounds", 0, "Maximum local-search rounds (0 = until no improvement)")
	cmd.Flags().IntVar(&parallelism, "parallelism", 1, "Local-search recursion width; >1 uses the parallel improver")
	cmd.Flags().BoolVar(&skipLocalSearch, "skip-local-search", false, "Write the initial schedule without improving it")
	cmd.Flags().BoolVar(&jsonLogs, "json", false, "Emit structured JSON logs instead of human-readable ones")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address while solving (e.g. :9090); empty disables")
	cmd.MarkFlagRequired("input")

	return cmd
}

// serveMetrics exposes the solver's registry for the lifetime of the
// run. Scrape failures after the process exits are expected; the
// endpoint exists for watching long solves, not for durable telemetry.
func serveMetrics(log *zap.Logger, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warn("metrics listener stopped", zap.String("addr", addr), zap.Error(err))
	}
}

func buildInitial(algorithm string, inst *ioschema.Instance, log obslog.Logger) (*schedule.Schedule, error) {
	switch algorithm {
	case "greedy":
		return greedy.Solve(inst.Network, inst.VehicleTypes, &inst.Config)
	case "mincostflow", "":
		return mincostflow.Solve(inst.Network, inst.VehicleTypes, &inst.Config, log)
	default:
		return nil, fmt.Errorf("unknown algorithm %q (want mincostflow or greedy)", algorithm)
	}
}
