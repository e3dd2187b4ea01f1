package main

import (
	"fmt"

	"github.com/dusk-indust/docpipe/internal/export"
	"github.com/dusk-indust/docpipe/internal/workflow"
)

func runDiagram(wf *workflow.Workflow) error {
	fmt.Print(export.WorkflowMermaid(wf))
	return nil
}
