package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dtnsim/internal/sim"
)

var reportInput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the summary of a saved run report",
	Long:  "report reads a JSON run report written by simulate --out and renders its summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(reportInput)
		if err != nil {
			return err
		}
		var r sim.Report
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("parse report: %w", err)
		}
		fmt.Println(renderSummary(r))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportInput, "input", "", "Path to a run report JSON file")
	reportCmd.MarkFlagRequired("input")
}
