// Package cmd provides the command-line interface for dramctl.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dramctl",
	Short: "Dramctl runs DRAM power-state sequences on an emulated controller.",
	Long: `Dramctl runs the self-refresh, power-down, suspend and retraining ` +
		`sequences of an A20-class DRAM controller against an emulated ` +
		`register bank. It can trace every register access into SQLite and ` +
		`serve the controller state over HTTP.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("env", ".env", "Settings file in .env format")
	flags.String("trace", "", "Record the run into this SQLite database")
	flags.BoolP("verbose", "v", false, "Log every sequencer step")
	flags.Int("busy-polls", 2,
		"Reads that see the command busy bit before it clears")
	flags.Bool("stuck", false, "Make the command busy bit never clear")
}
