package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Instrument recommendation engine",
	Long: `Advisor recommends financial instruments matching an investment
profile: risk appetite, target return, sectors, budget, dividend
priority, ethical preferences and instrument types.

Usage:
  go run ./cmd/advisor [command]

Examples:
  go run ./cmd/advisor api
  go run ./cmd/advisor recommend --risk low --return 5 --sectors tech --budget 5000
  go run ./cmd/advisor warm`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
