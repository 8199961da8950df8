package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/cluster-tools/internal/condor"
	"github.com/matsen/cluster-tools/internal/remote"
)

var histLimitFlag int

var histCmd = &cobra.Command{
	Use:   "hist",
	Short: "Show your recently completed jobs",
	RunE:  runHist,
}

func init() {
	histCmd.Flags().IntVar(&histLimitFlag, "limit", 10, "Maximum number of history entries to show")
	rootCmd.AddCommand(histCmd)
}

func runHist(cmd *cobra.Command, args []string) error {
	target := mustLoadTarget()

	session, err := remote.Open(context.Background(), target)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	defer session.Close()

	out, err := session.Execute(context.Background(), condor.HistoryCommand(queueUser(target), histLimitFlag))
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	jobs := condor.ParseHistory(out.Stdout)
	if humanOutput {
		fmt.Print(condor.FormatHistory(jobs))
		return nil
	}
	if err := outputJSON(jobResponses(jobs)); err != nil {
		exitWithError(ExitError, "encoding JSON: %v", err)
	}
	return nil
}
