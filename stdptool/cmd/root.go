// Package cmd provides the command-line interface of stdptool.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Environment variables read by stdptool. They may also be set in a .env
// file in the working directory.
const (
	envRecordPath  = "STDP_RECORD_PATH"
	envMonitorPort = "STDP_MONITOR_PORT"
	envClickHouse  = "STDP_CLICKHOUSE_DSN"
)

// NewRootCmd creates the stdptool command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stdptool",
		Short: "stdptool builds STDP decay tables and replays spike trains.",
		Long: `stdptool generates the decay lookup tables used by the pair and ` +
			`triplet STDP rules, inspects parameter blobs, and replays spike ` +
			`trains through the rules to study weight changes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadDotEnv(".env")
		},
	}

	rootCmd.AddCommand(
		newLUTCmd(),
		newInspectCmd(),
		newReplayCmd(),
		newSweepCmd(),
	)

	return rootCmd
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	return godotenv.Load(path)
}
