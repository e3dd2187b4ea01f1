// Package orchestrator drives a workflow's teams through their topological
// order against durable job state. For each team that is not yet complete
// it resolves labeled inputs, hands the assembled context to a TeamRunner,
// and records the resulting artifact and step log in the job store. Teams
// execute strictly sequentially: later teams may consume earlier teams'
// full step logs, so there is no intra-run concurrency.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/dusk-indust/docpipe/internal/workflow"
)

// Phase is the execution phase of one team within a run.
type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseResolving Phase = "resolving"
	PhaseExecuting Phase = "executing"
	PhaseRecording Phase = "recording"
	PhaseComplete  Phase = "complete"
	PhaseFailed    Phase = "failed"
)

// ProgressEvent is emitted to the operator during a run.
type ProgressEvent struct {
	Team    string
	Phase   Phase
	Message string
}

// RunRequest identifies what to run. It is an explicit value passed to
// Pipeline.Run; there is no ambient run configuration.
type RunRequest struct {
	// JobID names an allocated job to run or resume.
	JobID int

	// StartFrom optionally names a team to rerun from. The team and every
	// team that transitively depends on it are reset to not-started before
	// the run; everything else keeps its recorded output.
	StartFrom string
}

// RunError is the terminal error of an aborted run. It identifies the job,
// the failing team, and the phase the failure occurred in, so an operator
// can diagnose and resume.
type RunError struct {
	JobID int
	Team  string
	Phase Phase
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run aborted: job %04d team %s (%s): %v", e.JobID, e.Team, e.Phase, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Step is one intermediate turn recorded while a team executed.
type Step struct {
	Agent   string
	Content string
}

// TeamRequest is the work order handed to a TeamRunner: the team's fixed
// instruction content (verbatim, never templated), the assembled labeled
// context, and the team's execution parameters.
type TeamRequest struct {
	Team         string
	Instructions string
	Context      string
	Params       workflow.ModelParams
}

// TeamResult is what a TeamRunner returns on success.
type TeamResult struct {
	// Output is the team's final artifact text.
	Output string

	// Steps is the ordered log of intermediate turns.
	Steps []Step
}

// TeamRunner executes one team with its assembled context. This is the
// boundary to the external agent runtime: the orchestrator imposes no
// timeout and performs no retries here, because only the runner knows
// whether a failure is transient.
type TeamRunner interface {
	RunTeam(ctx context.Context, req TeamRequest) (*TeamResult, error)
}
