package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/cluster-tools/internal/condor"
	"github.com/matsen/cluster-tools/internal/remote"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List your current jobs on the cluster",
	RunE:  runJobs,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}

// JobResponse is one job in jobs/hist JSON output.
type JobResponse struct {
	ID      string `json:"id"`
	State   string `json:"state"`
	GPUs    int    `json:"gpus"`
	Cmd     string `json:"cmd,omitempty"`
	Args    string `json:"args,omitempty"`
	Queued  int64  `json:"queued,omitempty"`
	Started int64  `json:"started,omitempty"`
}

func runJobs(cmd *cobra.Command, args []string) error {
	target := mustLoadTarget()

	session, err := remote.Open(context.Background(), target)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	defer session.Close()

	out, err := session.Execute(context.Background(), condor.ListCommand(queueUser(target)))
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	jobs := condor.ParseJobList(out.Stdout)
	if humanOutput {
		fmt.Print(condor.FormatJobs(jobs))
		return nil
	}
	if err := outputJSON(jobResponses(jobs)); err != nil {
		exitWithError(ExitError, "encoding JSON: %v", err)
	}
	return nil
}

func jobResponses(jobs []condor.JobDetail) []JobResponse {
	resp := make([]JobResponse, len(jobs))
	for i, j := range jobs {
		resp[i] = JobResponse{
			ID:      j.ID,
			State:   string(j.State),
			GPUs:    j.GPUs,
			Cmd:     j.Cmd,
			Args:    j.Args,
			Queued:  j.Queued,
			Started: j.Started,
		}
	}
	return resp
}
