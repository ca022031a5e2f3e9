package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dtnsim",
	Short: "Delay tolerant networking simulation toolkit",
	Long:  "dtnsim runs discrete time-stepped DTN simulations with QoS-aware bundle routing over scheduled contact windows.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(scenariosCmd)
}
