// Package mcptools exposes the document pipeline over the Model Context
// Protocol, so agent frontends can run jobs and inspect artifacts without
// shelling out to the CLI.
package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewPipelineMCPServer creates an MCP server with all 4 pipeline tools registered.
func NewPipelineMCPServer(svc *PipelineService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "docpipe",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_pipeline",
		Description: "Run or resume a document pipeline job. Executes each team in dependency order, skipping teams already completed. Allocates a new job when no jobId is given; startFrom reruns a team and everything downstream of it.",
	}, svc.RunPipeline)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_status",
		Description: "Report the completion state of one job: each team in execution order, its artifact locations, and the next team to run.",
	}, svc.JobStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_jobs",
		Description: "List every job under the output directory with its per-team completion state.",
	}, svc.ListJobs)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "read_artifact",
		Description: "Read a completed team's output artifact or step log from a job.",
	}, svc.ReadArtifact)

	return server
}

// RunMCPServer starts an HTTP server exposing the pipeline MCP tools.
func RunMCPServer(ctx context.Context, svc *PipelineService, addr string) error {
	server := NewPipelineMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
