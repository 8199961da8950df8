package main

import (
	"fmt"
	"testing"

	"github.com/matsen/cluster-tools/internal/analyze"
	"github.com/matsen/cluster-tools/internal/credstore"
	"github.com/matsen/cluster-tools/internal/remote"
)

func TestExitCodeForAnalysisStages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{
			"connect unreachable",
			&analyze.AnalysisError{Stage: analyze.StageConnect, Err: remote.ErrUnreachable},
			ExitConnectError,
		},
		{
			"connect auth failed",
			&analyze.AnalysisError{Stage: analyze.StageConnect, Err: remote.ErrAuthFailed},
			ExitConnectError,
		},
		{
			"connect bad config",
			&analyze.AnalysisError{Stage: analyze.StageConnect, Err: fmt.Errorf("%w: no host", remote.ErrConfigInvalid)},
			ExitConfigError,
		},
		{
			"exec failure",
			&analyze.AnalysisError{Stage: analyze.StageExec, Err: &remote.ExitError{Code: 127}},
			ExitExecError,
		},
		{
			"parse failure",
			&analyze.AnalysisError{Stage: analyze.StageParse, Err: fmt.Errorf("garbage")},
			ExitParseError,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := exitCodeFor(c.err); got != c.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", c.err, got, c.want)
			}
		})
	}
}

func TestExitCodeForBareErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not configured", credstore.ErrNotConfigured, ExitConfigError},
		{"auth failed", remote.ErrAuthFailed, ExitConnectError},
		{"unreachable", remote.ErrUnreachable, ExitConnectError},
		{"timeout", remote.ErrTimeout, ExitExecError},
		{"remote exit", &remote.ExitError{Code: 1}, ExitExecError},
		{"generic", fmt.Errorf("boom"), ExitError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := exitCodeFor(c.err); got != c.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", c.err, got, c.want)
			}
		})
	}
}

func TestQueueUser(t *testing.T) {
	if got := queueUser(credstore.Target{Username: "alice"}); got != "alice" {
		t.Errorf("expected alice, got %q", got)
	}
	if got := queueUser(credstore.Target{SSHConfigAlias: "hutch"}); got != "$USER" {
		t.Errorf("expected $USER fallback, got %q", got)
	}
}
