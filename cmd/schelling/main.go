// Command schelling runs the Schelling segregation model with perceived
// similarity and records its metrics log.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "schelling",
		Short: "Schelling segregation model with perceived similarity",
		Long: `schelling runs a spatial agent-based segregation model in which each
agent draws its own homophily threshold and earns partial similarity credit
from dissimilar neighbors. The run advances one tick at a time until every
agent is simultaneously satisfied or the step limit is reached; model- and
agent-level metrics are snapshotted every tick and stored in SQLite.`,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("schelling version %s\n", version)
		},
	}
}
