package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/docpipe/internal/jobstore"
	"github.com/dusk-indust/docpipe/internal/resolver"
	"github.com/dusk-indust/docpipe/internal/workflow"
)

// Pipeline coordinates one workflow against one job store. It owns the
// per-run state machine; the heavy lifting is delegated to the workflow
// graph, the input resolver, the job store, and the TeamRunner.
type Pipeline struct {
	wf       *workflow.Workflow
	store    *jobstore.Store
	runner   TeamRunner
	progress *ProgressReporter

	// templateDir is the directory team template paths are relative to,
	// normally the directory containing the workflow file.
	templateDir string
}

// NewPipeline wires a Pipeline. templateDir anchors the workflow's relative
// instruction-template paths.
func NewPipeline(wf *workflow.Workflow, store *jobstore.Store, runner TeamRunner, templateDir string) *Pipeline {
	return &Pipeline{
		wf:          wf,
		store:       store,
		runner:      runner,
		progress:    NewProgressReporter(),
		templateDir: templateDir,
	}
}

// Progress returns a channel that emits progress events.
func (p *Pipeline) Progress() <-chan ProgressEvent {
	return p.progress.Subscribe()
}

// Close shuts down the progress reporter. Callers should invoke this when
// the pipeline is no longer needed.
func (p *Pipeline) Close() {
	p.progress.Close()
}

// Run executes the workflow against the requested job. The execution order
// is computed once up front; configuration errors (cycles, unknown
// dependencies) surface before any team runs. Teams already completed in
// the job are skipped. Any team failure aborts the run with a *RunError;
// job state remains exactly as of the last successful completion, so a
// later resume re-executes only what is missing.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) error {
	order, err := p.wf.Order()
	if err != nil {
		return err
	}

	job, err := p.store.Load(req.JobID)
	if err != nil {
		return err
	}

	if req.StartFrom != "" {
		reset, err := p.wf.Dependents(req.StartFrom)
		if err != nil {
			return err
		}
		if err := p.store.ResetTeams(job, reset); err != nil {
			return err
		}
	}

	for _, name := range order {
		if p.store.IsComplete(job, name) {
			p.progress.Emit(ProgressEvent{Team: name, Phase: PhaseComplete, Message: "already complete, skipping"})
			continue
		}
		if err := p.runTeam(ctx, job, name); err != nil {
			return err
		}
	}

	return nil
}

// runTeam drives one team through resolving -> executing -> recording.
func (p *Pipeline) runTeam(ctx context.Context, job *jobstore.Job, name string) error {
	team := p.wf.Team(name)
	if team == nil {
		// Order came from the same workflow, so this cannot happen unless
		// the workflow was mutated mid-run.
		return p.fail(job, name, PhaseResolving, fmt.Errorf("team %q not found in workflow", name))
	}

	p.progress.Emit(ProgressEvent{Team: name, Phase: PhaseResolving})

	blocks, err := resolver.Resolve(team, job)
	if err != nil {
		return p.fail(job, name, PhaseResolving, err)
	}

	instructions, err := p.loadInstructions(team)
	if err != nil {
		return p.fail(job, name, PhaseResolving, err)
	}

	p.progress.Emit(ProgressEvent{Team: name, Phase: PhaseExecuting})

	// The one point where control leaves the orchestrator's failure
	// domain. No timeout here; cancellation policy belongs to the runner
	// and the caller's ctx.
	result, err := p.runner.RunTeam(ctx, TeamRequest{
		Team:         name,
		Instructions: instructions,
		Context:      resolver.Assemble(blocks),
		Params:       team.Params,
	})
	if err != nil {
		return p.fail(job, name, PhaseExecuting, err)
	}

	p.progress.Emit(ProgressEvent{Team: name, Phase: PhaseRecording})

	if _, err := p.store.RecordCompletion(job, name, team.Output,
		[]byte(result.Output), renderStepLog(name, result.Steps)); err != nil {
		return p.fail(job, name, PhaseRecording, err)
	}

	p.progress.Emit(ProgressEvent{Team: name, Phase: PhaseComplete})
	return nil
}

// loadInstructions reads the team's fixed instruction content. The content
// is passed to the runner unchanged; no substitution is applied here or
// anywhere downstream.
func (p *Pipeline) loadInstructions(team *workflow.Team) (string, error) {
	data, err := os.ReadFile(filepath.Join(p.templateDir, team.Template))
	if err != nil {
		return "", fmt.Errorf("instruction template for team %s: %w", team.Name, err)
	}
	return string(data), nil
}

func (p *Pipeline) fail(job *jobstore.Job, team string, phase Phase, err error) error {
	p.progress.Emit(ProgressEvent{Team: team, Phase: PhaseFailed, Message: err.Error()})
	return &RunError{JobID: job.ID, Team: team, Phase: phase, Err: err}
}

// renderStepLog renders a team's intermediate turns as a markdown document,
// the persisted form later teams consume through step-log inputs.
func renderStepLog(team string, steps []Step) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Step Log: %s\n", team)
	for i, step := range steps {
		fmt.Fprintf(&sb, "\n## Step %d: %s\n\n", i+1, step.Agent)
		sb.WriteString(step.Content)
		if !strings.HasSuffix(step.Content, "\n") {
			sb.WriteString("\n")
		}
	}
	return []byte(sb.String())
}
