package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dusk-indust/docpipe/internal/jobstore"
	"github.com/dusk-indust/docpipe/internal/mcptools"
	"github.com/dusk-indust/docpipe/internal/workflow"
)

// runServeMCP exposes the pipeline over MCP until interrupted.
func runServeMCP(flags cliFlags, wf *workflow.Workflow, store *jobstore.Store, templateDir string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner, err := buildRunner(ctx, flags)
	if err != nil {
		return err
	}

	svc := mcptools.NewPipelineService(wf, store, runner, templateDir, flags.AssetsDir)

	fmt.Printf("MCP server listening on %s\n", flags.MCPAddr)
	return mcptools.RunMCPServer(ctx, svc, flags.MCPAddr)
}
