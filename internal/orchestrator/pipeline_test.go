package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/docpipe/internal/jobstore"
	"github.com/dusk-indust/docpipe/internal/resolver"
	"github.com/dusk-indust/docpipe/internal/workflow"
)

// mockRunner records every request and delegates to an optional function.
// The default behavior echoes a canned output per team.
type mockRunner struct {
	runTeam  func(ctx context.Context, req TeamRequest) (*TeamResult, error)
	requests []TeamRequest
}

func (m *mockRunner) RunTeam(ctx context.Context, req TeamRequest) (*TeamResult, error) {
	m.requests = append(m.requests, req)
	if m.runTeam != nil {
		return m.runTeam(ctx, req)
	}
	return &TeamResult{
		Output: "output of " + req.Team,
		Steps:  []Step{{Agent: "writer", Content: "drafted " + req.Team}},
	}, nil
}

// testEnv bundles the moving parts of a pipeline test: a three-team linear
// workflow (Planning -> Production -> Analysis), its template files, a job
// store, and an allocated job with a content brief in its asset snapshot.
type testEnv struct {
	wf          *workflow.Workflow
	store       *jobstore.Store
	job         *jobstore.Job
	templateDir string
}

const testWorkflowYAML = `
workflow:
  document_type: RAQ
  teams:
    - name: Planning
      template: planning.md
      output: planning_output
      inputs:
        - label: CONTENT BRIEF
          file: brief.md
    - name: Production
      template: production.md
      output: production_output
      depends_on: [Planning]
      inputs:
        - label: CONTENT PLAN
          output_of: Planning
        - label: PLANNING STEPS
          steps_of: Planning
    - name: Analysis
      template: analysis.md
      output: process_analysis
      depends_on: [Production]
      inputs:
        - label: PRODUCTION STEPS
          steps_of: Production
`

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	wf, err := workflow.Parse([]byte(testWorkflowYAML))
	require.NoError(t, err)

	templateDir := t.TempDir()
	for _, name := range []string{"planning.md", "production.md", "analysis.md"} {
		content := "instructions for " + name + " with a literal {placeholder}\n"
		require.NoError(t, os.WriteFile(filepath.Join(templateDir, name), []byte(content), 0o644))
	}

	store := jobstore.New(t.TempDir())
	job, err := store.Allocate("RAQ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(
		job.Path(filepath.Join(job.AssetsDir, "brief.md")), []byte("the brief"), 0o644))

	return &testEnv{wf: wf, store: store, job: job, templateDir: templateDir}
}

func (e *testEnv) pipeline(runner TeamRunner) *Pipeline {
	return NewPipeline(e.wf, e.store, runner, e.templateDir)
}

func TestRun_FreshJob_ExecutesAllTeamsInOrder(t *testing.T) {
	env := newTestEnv(t)
	runner := &mockRunner{}
	p := env.pipeline(runner)
	defer p.Close()

	err := p.Run(context.Background(), RunRequest{JobID: env.job.ID})
	require.NoError(t, err)

	require.Len(t, runner.requests, 3)
	assert.Equal(t, "Planning", runner.requests[0].Team)
	assert.Equal(t, "Production", runner.requests[1].Team)
	assert.Equal(t, "Analysis", runner.requests[2].Team)

	job, err := env.store.Load(env.job.ID)
	require.NoError(t, err)
	for _, team := range []string{"Planning", "Production", "Analysis"} {
		assert.True(t, env.store.IsComplete(job, team), "%s should be complete", team)
	}

	out, err := os.ReadFile(job.Path("production_output.md"))
	require.NoError(t, err)
	assert.Equal(t, "output of Production", string(out))
}

// Instructions are passed through verbatim and the context carries the
// framed labeled blocks in declaration order.
func TestRun_AssemblesContextAndInstructions(t *testing.T) {
	env := newTestEnv(t)
	runner := &mockRunner{}
	p := env.pipeline(runner)
	defer p.Close()

	require.NoError(t, p.Run(context.Background(), RunRequest{JobID: env.job.ID}))

	planning := runner.requests[0]
	assert.Equal(t, "instructions for planning.md with a literal {placeholder}\n", planning.Instructions,
		"instruction content must not be templated")
	assert.Equal(t, "START CONTENT BRIEF\nthe brief\nEND CONTENT BRIEF", planning.Context)

	production := runner.requests[1]
	assert.Contains(t, production.Context, "START CONTENT PLAN\noutput of Planning\nEND CONTENT PLAN")
	assert.Contains(t, production.Context, "START PLANNING STEPS\n")
	assert.Contains(t, production.Context, "drafted Planning")
	assert.Less(t,
		strings.Index(production.Context, "CONTENT PLAN"),
		strings.Index(production.Context, "PLANNING STEPS"),
		"blocks must appear in declaration order")
}

// Completed teams are skipped on resume, and their recorded outputs are not
// rewritten.
func TestRun_ResumeSkipsCompletedTeams(t *testing.T) {
	env := newTestEnv(t)
	runner := &mockRunner{}
	p := env.pipeline(runner)
	defer p.Close()

	require.NoError(t, p.Run(context.Background(), RunRequest{JobID: env.job.ID}))
	require.Len(t, runner.requests, 3)

	// Reset only Analysis; resume must re-run exactly that team.
	job, err := env.store.Load(env.job.ID)
	require.NoError(t, err)
	require.NoError(t, env.store.ResetTeams(job, []string{"Analysis"}))

	before, err := os.ReadFile(job.Path("planning_output.md"))
	require.NoError(t, err)
	beforeInfo, err := os.Stat(job.Path("planning_output.md"))
	require.NoError(t, err)

	runner.requests = nil
	require.NoError(t, p.Run(context.Background(), RunRequest{JobID: env.job.ID}))

	require.Len(t, runner.requests, 1)
	assert.Equal(t, "Analysis", runner.requests[0].Team)

	after, err := os.ReadFile(job.Path("planning_output.md"))
	require.NoError(t, err)
	assert.Equal(t, before, after, "completed output must be byte-identical after resume")
	afterInfo, err := os.Stat(job.Path("planning_output.md"))
	require.NoError(t, err)
	assert.Equal(t, beforeInfo.ModTime(), afterInfo.ModTime(), "completed output must not be rewritten")
}

// Rerun-from resets the named team and its transitive dependents, reuses
// everything upstream, and re-executes the rest.
func TestRun_StartFrom(t *testing.T) {
	env := newTestEnv(t)
	runner := &mockRunner{}
	p := env.pipeline(runner)
	defer p.Close()

	require.NoError(t, p.Run(context.Background(), RunRequest{JobID: env.job.ID}))
	runner.requests = nil

	require.NoError(t, p.Run(context.Background(), RunRequest{JobID: env.job.ID, StartFrom: "Production"}))

	require.Len(t, runner.requests, 2)
	assert.Equal(t, "Production", runner.requests[0].Team)
	assert.Equal(t, "Analysis", runner.requests[1].Team)

	job, err := env.store.Load(env.job.ID)
	require.NoError(t, err)
	assert.True(t, env.store.IsComplete(job, "Planning"), "upstream team must stay completed")
}

func TestRun_MissingSourceAborts(t *testing.T) {
	env := newTestEnv(t)

	// Remove the brief so Planning's static input cannot resolve.
	require.NoError(t, os.Remove(env.job.Path(filepath.Join(env.job.AssetsDir, "brief.md"))))

	runner := &mockRunner{}
	p := env.pipeline(runner)
	defer p.Close()

	err := p.Run(context.Background(), RunRequest{JobID: env.job.ID})

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, env.job.ID, runErr.JobID)
	assert.Equal(t, "Planning", runErr.Team)
	assert.Equal(t, PhaseResolving, runErr.Phase)

	var missing *resolver.MissingSourceError
	assert.ErrorAs(t, err, &missing)

	assert.Empty(t, runner.requests, "no team may execute with incomplete context")
}

func TestRun_ExecutionFailureAbortsAndPreservesState(t *testing.T) {
	env := newTestEnv(t)

	boom := errors.New("agent exploded")
	runner := &mockRunner{
		runTeam: func(_ context.Context, req TeamRequest) (*TeamResult, error) {
			if req.Team == "Production" {
				return nil, boom
			}
			return &TeamResult{Output: "output of " + req.Team, Steps: []Step{{Agent: "writer", Content: "w"}}}, nil
		},
	}
	p := env.pipeline(runner)
	defer p.Close()

	err := p.Run(context.Background(), RunRequest{JobID: env.job.ID})

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, "Production", runErr.Team)
	assert.Equal(t, PhaseExecuting, runErr.Phase)
	assert.ErrorIs(t, err, boom)

	// Planning's completion survives; Production never reached the store.
	job, err := env.store.Load(env.job.ID)
	require.NoError(t, err)
	assert.True(t, env.store.IsComplete(job, "Planning"))
	assert.False(t, env.store.IsComplete(job, "Production"))
	assert.False(t, env.store.IsComplete(job, "Analysis"))

	// A later resume re-executes exactly the failed team and its successors.
	runner.runTeam = nil
	runner.requests = nil
	require.NoError(t, p.Run(context.Background(), RunRequest{JobID: env.job.ID}))
	require.Len(t, runner.requests, 2)
	assert.Equal(t, "Production", runner.requests[0].Team)
}

func TestRun_ConfigurationErrorsBeforeAnyExecution(t *testing.T) {
	env := newTestEnv(t)
	runner := &mockRunner{}

	cyclic, err := workflow.Parse([]byte(`
workflow:
  teams:
    - {name: A, template: a.md, output: a, depends_on: [B]}
    - {name: B, template: b.md, output: b, depends_on: [A]}
`))
	require.NoError(t, err)

	p := NewPipeline(cyclic, env.store, runner, env.templateDir)
	defer p.Close()

	err = p.Run(context.Background(), RunRequest{JobID: env.job.ID})
	var cycleErr *workflow.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Empty(t, runner.requests)
}

func TestRun_UnknownJob(t *testing.T) {
	env := newTestEnv(t)
	p := env.pipeline(&mockRunner{})
	defer p.Close()

	err := p.Run(context.Background(), RunRequest{JobID: 999})
	var notFound *jobstore.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestRun_UnknownStartFromTeam(t *testing.T) {
	env := newTestEnv(t)
	runner := &mockRunner{}
	p := env.pipeline(runner)
	defer p.Close()

	err := p.Run(context.Background(), RunRequest{JobID: env.job.ID, StartFrom: "Ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ghost")
	assert.Empty(t, runner.requests)
}

func TestRun_EmitsProgressEvents(t *testing.T) {
	env := newTestEnv(t)
	runner := &mockRunner{}
	p := env.pipeline(runner)

	require.NoError(t, p.Run(context.Background(), RunRequest{JobID: env.job.ID}))
	p.Close()

	var phases []Phase
	for ev := range p.Progress() {
		if ev.Team == "Planning" {
			phases = append(phases, ev.Phase)
		}
	}
	assert.Equal(t, []Phase{PhaseResolving, PhaseExecuting, PhaseRecording, PhaseComplete}, phases)
}

func TestRenderStepLog(t *testing.T) {
	got := string(renderStepLog("Planning", []Step{
		{Agent: "researcher", Content: "found sources"},
		{Agent: "writer", Content: "drafted outline\n"},
	}))

	assert.Contains(t, got, "# Step Log: Planning")
	assert.Contains(t, got, "## Step 1: researcher")
	assert.Contains(t, got, "found sources")
	assert.Contains(t, got, "## Step 2: writer")
	assert.Less(t, strings.Index(got, "Step 1"), strings.Index(got, "Step 2"))
}
