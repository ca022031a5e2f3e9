package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dtnsim/internal/config"
	"dtnsim/internal/logging"
	"dtnsim/internal/scenario"
	"dtnsim/internal/sim"
)

var (
	simConfigPath string
	simSchemaPath string
	simPreset     string
	simScenario   string
	simPrintOnly  bool
	simMetricsLog string
	simReportPath string
	simSeed       int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a DTN simulation to completion",
	Long:  "simulate builds a network from a config file, a preset, or a scenario file, runs the step loop to the horizon, and prints a summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, scn, err := resolveRun()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			cfg.RandomSeed = simSeed
		}

		writer, cleanup, err := newWriters(simPrintOnly, simMetricsLog)
		if err != nil {
			return err
		}
		defer cleanup()

		engine, err := sim.New(cfg, writer)
		if err != nil {
			return err
		}
		if scn != nil {
			if err := scn.Apply(engine); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, logging.New())

		if err := engine.Run(ctx); err != nil {
			return err
		}

		report := engine.Report()
		if simReportPath != "" {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(simReportPath, data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
		fmt.Println(renderSummary(report))
		return nil
	},
}

// resolveRun picks the configuration source: a named preset, a scenario
// file, or the plain YAML config validated against the CUE schema.
func resolveRun() (*config.SimulationConfig, *scenario.Scenario, error) {
	switch {
	case simPreset != "" && simScenario != "":
		return nil, nil, fmt.Errorf("--preset and --scenario are mutually exclusive")
	case simPreset != "":
		s, err := scenario.ByName(simPreset)
		if err != nil {
			return nil, nil, err
		}
		return s.Config, s, nil
	case simScenario != "":
		s, err := scenario.Load(simScenario)
		if err != nil {
			return nil, nil, err
		}
		return s.Config, s, nil
	default:
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return nil, nil, err
		}
		return cfg, nil, nil
	}
}

func init() {
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	simulateCmd.Flags().StringVar(&simPreset, "preset", "", "Built-in scenario preset (basic, congestion, deepspace)")
	simulateCmd.Flags().StringVar(&simScenario, "scenario", "", "Path to a YAML scenario file")
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print metrics to STDOUT instead of writing to DB")
	simulateCmd.Flags().StringVar(&simMetricsLog, "metrics-log", "", "Path to export metrics rows (JSONL)")
	simulateCmd.Flags().StringVar(&simReportPath, "out", "", "Path to write the run report as JSON")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Override the configured random seed")
}
