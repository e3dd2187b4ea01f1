package mcptools

import "github.com/dusk-indust/docpipe/internal/export"

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// RunPipelineInput is the input for the run_pipeline MCP tool.
type RunPipelineInput struct {
	JobID     int    `json:"jobId,omitempty" jsonschema:"existing job id to run or resume. Omit to allocate a new job"`
	StartFrom string `json:"startFrom,omitempty" jsonschema:"team name to rerun from; the team and its transitive dependents are re-executed"`
}

// RunPipelineOutput is the result of the run_pipeline MCP tool.
type RunPipelineOutput struct {
	Job export.JobExport `json:"job"`
}

// JobStatusInput is the input for the job_status MCP tool.
type JobStatusInput struct {
	JobID int `json:"jobId" jsonschema:"the job id to report on"`
}

// JobStatusOutput is the result of the job_status MCP tool.
type JobStatusOutput struct {
	Job export.JobExport `json:"job"`
}

// ListJobsInput is the input for the list_jobs MCP tool.
type ListJobsInput struct{}

// ListJobsOutput is the result of the list_jobs MCP tool.
type ListJobsOutput struct {
	Jobs []export.JobExport `json:"jobs"`
}

// ReadArtifactInput is the input for the read_artifact MCP tool.
type ReadArtifactInput struct {
	JobID int    `json:"jobId" jsonschema:"the job id to read from"`
	Team  string `json:"team" jsonschema:"the team whose artifact to read"`
	Kind  string `json:"kind,omitempty" jsonschema:"output (the final artifact, default) or steps (the step log)"`
}

// ReadArtifactOutput is the result of the read_artifact MCP tool.
type ReadArtifactOutput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}
