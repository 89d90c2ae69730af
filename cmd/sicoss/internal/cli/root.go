// Package cli wires the cobra commands that exercise the SICOSS pipeline
// from a terminal: a thin diagnostic surface over internal/pipeline.
package cli

import (
	"github.com/spf13/cobra"
)

func Execute() error {
	return rootCmd().Execute()
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sicoss",
		Short: "Compute and export the Argentine SICOSS payroll declaration",
	}
	root.AddCommand(runCmd())
	return root
}
