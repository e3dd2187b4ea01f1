package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dusk-indust/docpipe/internal/a2a"
	"github.com/dusk-indust/docpipe/internal/assets"
	"github.com/dusk-indust/docpipe/internal/jobstore"
	"github.com/dusk-indust/docpipe/internal/orchestrator"
	"github.com/dusk-indust/docpipe/internal/workflow"
)

// runPipeline executes or resumes a job against the workflow.
func runPipeline(flags cliFlags, wf *workflow.Workflow, store *jobstore.Store, templateDir string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner, err := buildRunner(ctx, flags)
	if err != nil {
		return err
	}

	jobID := flags.Rerun
	if jobID == 0 {
		if flags.StartFrom != "" {
			return fmt.Errorf("-start-from requires -rerun")
		}
		job, err := newJob(ctx, flags, wf, store)
		if err != nil {
			return err
		}
		jobID = job.ID
		fmt.Printf("Job %04d allocated in %s\n", job.ID, job.Dir())
	}

	pipeline := orchestrator.NewPipeline(wf, store, runner, templateDir)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range pipeline.Progress() {
			fmt.Println(orchestrator.FormatProgress(ev))
		}
	}()

	runErr := pipeline.Run(ctx, orchestrator.RunRequest{JobID: jobID, StartFrom: flags.StartFrom})
	pipeline.Close()
	<-done

	if runErr != nil {
		return runErr
	}
	fmt.Printf("Job %04d complete.\n", jobID)
	return nil
}

// buildRunner selects the team runner. Dry runs never touch the network;
// real runs verify the agent endpoint before any job state changes.
func buildRunner(ctx context.Context, flags cliFlags) (orchestrator.TeamRunner, error) {
	if flags.DryRun {
		return orchestrator.NewDryRunner(), nil
	}
	if flags.Agent == "" {
		return nil, fmt.Errorf("no agent endpoint: set -agent, agentEndpoint in docpipe.yml, or use -dry-run")
	}

	runner := orchestrator.NewA2ARunner(a2a.NewHTTPClient(), flags.Agent)
	if err := runner.Verify(ctx); err != nil {
		return nil, err
	}
	return runner, nil
}

// newJob allocates a job and snapshots the assets directory into it.
func newJob(ctx context.Context, flags cliFlags, wf *workflow.Workflow, store *jobstore.Store) (*jobstore.Job, error) {
	job, err := store.Allocate(wf.DocumentType)
	if err != nil {
		return nil, err
	}

	if flags.AssetsDir == "" {
		return job, nil
	}

	files, err := assets.Collect(flags.AssetsDir)
	if err != nil {
		return nil, err
	}
	copied, err := assets.Snapshot(ctx, files, job.Path(job.AssetsDir))
	if err != nil {
		return nil, err
	}
	if flags.Verbose {
		for _, c := range copied {
			fmt.Printf("  snapshot %s (%d bytes)\n", c.Name, c.Size)
		}
	}
	return job, nil
}
