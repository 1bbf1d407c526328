package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagData     string
	flagLogLevel string
	flagJSON     bool
)

var rootCmd = &cobra.Command{
	Use:          "planctl",
	Short:        "Vehicle purchase planner",
	Long:         "Project when a vehicle can be bought, in cash or financed, from local fixture data.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "Fixture file (TOML); built-in data when empty")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print JSON instead of text")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
