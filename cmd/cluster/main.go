// Package main provides the cluster CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cluster",
	Short: "HTCondor cluster operations over SSH",
	Long: `cluster manages a remote HTCondor cluster from your workstation.

Core features:
  - Stored SSH login configuration (~/.cluster_tools)
  - Queue price analysis by GPU/CPU and idle/running
  - Job listing, history, and log tailing

Commands connect to the cluster head node over SSH and run condor_q
and friends there. All commands output JSON by default; pass --human
for tables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
