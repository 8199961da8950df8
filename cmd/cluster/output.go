package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/matsen/cluster-tools/internal/analyze"
	"github.com/matsen/cluster-tools/internal/credstore"
	"github.com/matsen/cluster-tools/internal/remote"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// exitCodeFor maps a pipeline failure onto the command exit codes.
func exitCodeFor(err error) int {
	var analysisErr *analyze.AnalysisError
	if errors.As(err, &analysisErr) {
		switch analysisErr.Stage {
		case analyze.StageConnect:
			if errors.Is(err, remote.ErrConfigInvalid) {
				return ExitConfigError
			}
			return ExitConnectError
		case analyze.StageExec:
			return ExitExecError
		case analyze.StageParse:
			return ExitParseError
		}
	}
	switch {
	case errors.Is(err, credstore.ErrNotConfigured), errors.Is(err, remote.ErrConfigInvalid):
		return ExitConfigError
	case errors.Is(err, remote.ErrAuthFailed), errors.Is(err, remote.ErrUnreachable):
		return ExitConnectError
	case errors.Is(err, remote.ErrTimeout):
		return ExitExecError
	default:
		var exitErr *remote.ExitError
		if errors.As(err, &exitErr) {
			return ExitExecError
		}
		return ExitError
	}
}

// mustLoadTarget loads the stored login, exits with a hint if absent.
func mustLoadTarget() credstore.Target {
	target, err := credstore.Load()
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	return target
}

// queueUser returns the username to scope condor queries by. When the login
// goes through an ssh_config alias the local config may not name the remote
// user; $USER is expanded by the remote shell in that case.
func queueUser(target credstore.Target) string {
	if target.Username != "" {
		return target.Username
	}
	return "$USER"
}
