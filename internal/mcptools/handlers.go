package mcptools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/docpipe/internal/assets"
	"github.com/dusk-indust/docpipe/internal/export"
	"github.com/dusk-indust/docpipe/internal/jobstore"
	"github.com/dusk-indust/docpipe/internal/orchestrator"
	"github.com/dusk-indust/docpipe/internal/status"
	"github.com/dusk-indust/docpipe/internal/workflow"
)

// PipelineService holds the workflow, job store, and runner used by MCP
// tool handlers. One service serves one workflow and one store root.
type PipelineService struct {
	wf          *workflow.Workflow
	store       *jobstore.Store
	runner      orchestrator.TeamRunner
	templateDir string
	assetsDir   string
}

// NewPipelineService creates a PipelineService. templateDir anchors the
// workflow's relative instruction-template paths; assetsDir, if non-empty,
// is the operator directory snapshotted into newly allocated jobs.
func NewPipelineService(wf *workflow.Workflow, store *jobstore.Store, runner orchestrator.TeamRunner, templateDir, assetsDir string) *PipelineService {
	return &PipelineService{
		wf:          wf,
		store:       store,
		runner:      runner,
		templateDir: templateDir,
		assetsDir:   assetsDir,
	}
}

// RunPipeline runs or resumes a job. With no jobId it allocates a fresh job,
// snapshotting the service's assets directory into it first.
func (s *PipelineService) RunPipeline(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RunPipelineInput,
) (*mcp.CallToolResult, RunPipelineOutput, error) {
	jobID := input.JobID
	if jobID == 0 {
		if input.StartFrom != "" {
			return nil, RunPipelineOutput{}, fmt.Errorf("startFrom requires an existing jobId")
		}
		job, err := s.store.Allocate(s.wf.DocumentType)
		if err != nil {
			return nil, RunPipelineOutput{}, err
		}
		if s.assetsDir != "" {
			files, err := assets.Collect(s.assetsDir)
			if err != nil {
				return nil, RunPipelineOutput{}, err
			}
			if _, err := assets.Snapshot(ctx, files, job.Path(job.AssetsDir)); err != nil {
				return nil, RunPipelineOutput{}, err
			}
		}
		jobID = job.ID
	}

	pipeline := orchestrator.NewPipeline(s.wf, s.store, s.runner, s.templateDir)
	defer pipeline.Close()

	if err := pipeline.Run(ctx, orchestrator.RunRequest{JobID: jobID, StartFrom: input.StartFrom}); err != nil {
		return nil, RunPipelineOutput{}, err
	}

	js, err := status.ForJob(s.store, s.wf, jobID)
	if err != nil {
		return nil, RunPipelineOutput{}, err
	}

	return nil, RunPipelineOutput{Job: *export.ExportJob(js)}, nil
}

// JobStatus reports the completion state of one job.
func (s *PipelineService) JobStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input JobStatusInput,
) (*mcp.CallToolResult, JobStatusOutput, error) {
	if input.JobID == 0 {
		return nil, JobStatusOutput{}, fmt.Errorf("jobId is required")
	}

	js, err := status.ForJob(s.store, s.wf, input.JobID)
	if err != nil {
		return nil, JobStatusOutput{}, err
	}

	return nil, JobStatusOutput{Job: *export.ExportJob(js)}, nil
}

// ListJobs reports every job under the store root.
func (s *PipelineService) ListJobs(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListJobsInput,
) (*mcp.CallToolResult, ListJobsOutput, error) {
	all, err := status.List(s.store, s.wf)
	if err != nil {
		return nil, ListJobsOutput{}, err
	}

	out := ListJobsOutput{}
	for _, js := range all {
		out.Jobs = append(out.Jobs, *export.ExportJob(js))
	}
	return nil, out, nil
}

// ReadArtifact returns a completed team's output artifact or step log.
func (s *PipelineService) ReadArtifact(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ReadArtifactInput,
) (*mcp.CallToolResult, ReadArtifactOutput, error) {
	if input.JobID == 0 {
		return nil, ReadArtifactOutput{}, fmt.Errorf("jobId is required")
	}
	if input.Team == "" {
		return nil, ReadArtifactOutput{}, fmt.Errorf("team is required")
	}

	job, err := s.store.Load(input.JobID)
	if err != nil {
		return nil, ReadArtifactOutput{}, err
	}

	rec := job.Team(input.Team)
	if rec.Status != jobstore.StatusCompleted {
		return nil, ReadArtifactOutput{}, fmt.Errorf("team %s has not completed in job %04d", input.Team, input.JobID)
	}

	rel := rec.Output
	switch strings.ToLower(input.Kind) {
	case "", "output":
	case "steps":
		rel = rec.StepLog
	default:
		return nil, ReadArtifactOutput{}, fmt.Errorf("kind must be output or steps, got %q", input.Kind)
	}

	path := job.Path(rel)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadArtifactOutput{}, fmt.Errorf("read artifact: %w", err)
	}

	return nil, ReadArtifactOutput{Path: path, Content: string(data)}, nil
}
