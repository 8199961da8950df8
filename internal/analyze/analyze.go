// Package analyze orchestrates the queue-price analysis pipeline.
package analyze

import (
	"context"
	"fmt"

	"github.com/matsen/cluster-tools/internal/condor"
	"github.com/matsen/cluster-tools/internal/credstore"
	"github.com/matsen/cluster-tools/internal/price"
	"github.com/matsen/cluster-tools/internal/remote"
)

// Stage names the pipeline step where an analysis failed.
type Stage string

const (
	StageConnect Stage = "connect"
	StageExec    Stage = "exec"
	StageParse   Stage = "parse"
)

// AnalysisError wraps the first failure of an analysis run with its stage.
type AnalysisError struct {
	Stage Stage
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed at %s: %v", e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Session is the subset of remote.Session the pipeline needs. Satisfied by
// *remote.Session; fakes implement it in tests.
type Session interface {
	Execute(ctx context.Context, command string) (remote.Output, error)
	Close() error
}

// Dialer opens a session to a stored target.
type Dialer interface {
	Dial(ctx context.Context, target credstore.Target) (Session, error)
}

// SSHDialer dials real SSH sessions.
type SSHDialer struct {
	Options []remote.Option
}

func (d SSHDialer) Dial(ctx context.Context, target credstore.Target) (Session, error) {
	return remote.Open(ctx, target, d.Options...)
}

// Result is a completed analysis with its parse diagnostics.
type Result struct {
	Report            price.Report
	SkippedLines      uint64
	MalformedPriority uint64
}

// Run connects, queries the queue, parses it, and aggregates prices. The
// session is closed on every path once it has been opened. The first failure
// aborts the run, wrapped in an AnalysisError naming its stage.
func Run(ctx context.Context, dialer Dialer, target credstore.Target) (Result, error) {
	session, err := dialer.Dial(ctx, target)
	if err != nil {
		return Result{}, &AnalysisError{Stage: StageConnect, Err: err}
	}
	defer session.Close()

	out, err := session.Execute(ctx, condor.QueueCommand)
	if err != nil {
		return Result{}, &AnalysisError{Stage: StageExec, Err: err}
	}

	parsed, err := condor.ParseQueue(out.Stdout)
	if err != nil {
		return Result{}, &AnalysisError{Stage: StageParse, Err: err}
	}

	return Result{
		Report:            price.Aggregate(parsed.Records),
		SkippedLines:      parsed.SkippedLines,
		MalformedPriority: parsed.MalformedPriority,
	}, nil
}
