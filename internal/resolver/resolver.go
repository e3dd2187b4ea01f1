// Package resolver turns a team's declared labeled inputs into tagged
// content blocks and assembles them into the single context message handed
// to the team runner. Resolution is a pure function of the team definition
// and the current job state: file reads only, no writes, and never any
// implicit inputs beyond what the team declares.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dusk-indust/docpipe/internal/jobstore"
	"github.com/dusk-indust/docpipe/internal/workflow"
)

// Block is one labeled input resolved to its content. Blocks are transient:
// they exist only for the duration of one team's execution and are folded
// into the assembled context.
type Block struct {
	Label   string
	Content string
}

// MissingSourceError reports a labeled input whose source could not be
// resolved: an absent static file, or a producing team that has not
// completed in this job. Because the orchestrator executes teams in
// topological order, the latter indicates corrupted or hand-edited job
// state and is fatal for the run.
type MissingSourceError struct {
	Team   string
	Label  string
	Source workflow.SourceRef
	Cause  error
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("resolver: team %s input %q: source %s unavailable: %v",
		e.Team, e.Label, e.Source, e.Cause)
}

func (e *MissingSourceError) Unwrap() error {
	return e.Cause
}

// Resolve loads every labeled input of a team, in declaration order, and
// returns exactly one Block per declared input. Static file references are
// read from the job's asset snapshot; team-output and step-log references
// are read from the locations recorded by the job store, and fail if the
// producing team is not completed.
func Resolve(team *workflow.Team, job *jobstore.Job) ([]Block, error) {
	blocks := make([]Block, 0, len(team.Inputs))

	for _, in := range team.Inputs {
		content, err := resolveSource(in.Source, job)
		if err != nil {
			return nil, &MissingSourceError{
				Team:   team.Name,
				Label:  in.Label,
				Source: in.Source,
				Cause:  err,
			}
		}
		blocks = append(blocks, Block{Label: in.Label, Content: content})
	}

	return blocks, nil
}

func resolveSource(ref workflow.SourceRef, job *jobstore.Job) (string, error) {
	switch ref.Kind {
	case workflow.SourceFile:
		data, err := os.ReadFile(job.Path(filepath.Join(job.AssetsDir, ref.Ref)))
		if err != nil {
			return "", err
		}
		return string(data), nil

	case workflow.SourceOutput:
		rec := job.Team(ref.Ref)
		if rec.Status != jobstore.StatusCompleted {
			return "", fmt.Errorf("producing team %s has not completed", ref.Ref)
		}
		data, err := os.ReadFile(job.Path(rec.Output))
		if err != nil {
			return "", err
		}
		return string(data), nil

	case workflow.SourceStepLog:
		rec := job.Team(ref.Ref)
		if rec.Status != jobstore.StatusCompleted {
			return "", fmt.Errorf("producing team %s has not completed", ref.Ref)
		}
		data, err := os.ReadFile(job.Path(rec.StepLog))
		if err != nil {
			return "", err
		}
		return string(data), nil

	default:
		return "", fmt.Errorf("unknown source kind %q", ref.Kind)
	}
}
