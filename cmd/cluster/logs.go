package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/cluster-tools/internal/condor"
	"github.com/matsen/cluster-tools/internal/remote"
)

var logsCmd = &cobra.Command{
	Use:   "logs [job]",
	Short: "Tail the log files of a running job",
	Long: `Show the last lines of a running job's log, stdout, and stderr files.

The job argument is a cluster.proc id, a bare cluster id, or "latest"
(the default) for the most recently queued running job.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)
}

// LogFileResponse is one tailed file in logs JSON output.
type LogFileResponse struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LogsResponse is the JSON shape of a logs invocation.
type LogsResponse struct {
	Job   string            `json:"job"`
	Files []LogFileResponse `json:"files"`
}

func runLogs(cmd *cobra.Command, args []string) error {
	selector := ""
	if len(args) > 0 {
		selector = args[0]
	}

	target := mustLoadTarget()

	ctx := context.Background()
	session, err := remote.Open(ctx, target)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	defer session.Close()

	out, err := session.Execute(ctx, condor.LogPathsCommand(queueUser(target)))
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	jobs := condor.ParseLogPaths(out.Stdout)
	job, err := condor.SelectJob(jobs, selector)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	files := []struct {
		kind, path string
	}{
		{"log", job.UserLog},
		{"stdout", job.Out},
		{"stderr", job.Err},
	}

	resp := LogsResponse{Job: job.ID}
	for _, f := range files {
		entry := LogFileResponse{Kind: f.kind}
		if f.path == "" {
			entry.Error = "not set"
			resp.Files = append(resp.Files, entry)
			continue
		}
		entry.Path = condor.ResolvePath(job.Iwd, f.path)

		tailOut, err := session.Execute(ctx, condor.TailCommand(entry.Path, condor.TailLines))
		if err != nil {
			// A vanished or unreadable file should not sink the other two
			var exitErr *remote.ExitError
			if errors.As(err, &exitErr) {
				entry.Error = exitErr.Stderr
				resp.Files = append(resp.Files, entry)
				continue
			}
			exitWithError(exitCodeFor(err), "%v", err)
		}
		entry.Content = tailOut.Stdout
		resp.Files = append(resp.Files, entry)
	}

	if humanOutput {
		printLogsHuman(resp)
		return nil
	}
	if err := outputJSON(resp); err != nil {
		exitWithError(ExitError, "encoding JSON: %v", err)
	}
	return nil
}

func printLogsHuman(resp LogsResponse) {
	fmt.Printf("Job %s\n", resp.Job)
	for _, f := range resp.Files {
		fmt.Printf("\n=== %s", f.Kind)
		if f.Path != "" {
			fmt.Printf(" (%s)", f.Path)
		}
		fmt.Println(" ===")
		switch {
		case f.Error != "":
			fmt.Printf("(%s)\n", f.Error)
		case strings.TrimSpace(f.Content) == "":
			fmt.Println("(empty)")
		default:
			fmt.Print(f.Content)
			if !strings.HasSuffix(f.Content, "\n") {
				fmt.Println()
			}
		}
	}
}
