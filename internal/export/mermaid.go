// Package export renders workflows and jobs into external formats:
// Mermaid diagrams for documentation and JSON for machine consumption.
package export

import (
	"fmt"
	"strings"

	"github.com/dusk-indust/docpipe/internal/workflow"
)

// WorkflowMermaid produces a Mermaid graph TD diagram of a workflow. Teams
// become nodes, depends_on entries become solid arrows, and labeled inputs
// sourced from another team become dashed arrows annotated with the label.
func WorkflowMermaid(wf *workflow.Workflow) string {
	// Team name -> Mermaid node id (alphanumeric only).
	ids := make(map[string]string, len(wf.Teams))
	for i, team := range wf.Teams {
		ids[team.Name] = fmt.Sprintf("T%d", i)
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, team := range wf.Teams {
		sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", ids[team.Name], team.Name))
	}

	for _, team := range wf.Teams {
		for _, dep := range team.DependsOn {
			if from, ok := ids[dep]; ok {
				sb.WriteString(fmt.Sprintf("  %s --> %s\n", from, ids[team.Name]))
			}
		}
		for _, in := range team.Inputs {
			if in.Source.Kind == workflow.SourceFile {
				continue
			}
			if from, ok := ids[in.Source.Ref]; ok {
				sb.WriteString(fmt.Sprintf("  %s -.->|%s| %s\n", from, in.Label, ids[team.Name]))
			}
		}
	}

	return sb.String()
}
