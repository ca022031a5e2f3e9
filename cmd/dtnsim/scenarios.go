package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dtnsim/internal/scenario"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the built-in scenario presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range scenario.Names() {
			s, err := scenario.ByName(name)
			if err != nil {
				return err
			}
			fmt.Printf("%-12s %s\n", name, s.Description)
		}
		return nil
	},
}
