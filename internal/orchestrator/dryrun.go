package orchestrator

import (
	"context"
	"fmt"
	"strings"
)

// Compile-time interface check.
var _ TeamRunner = (*DryRunner)(nil)

// DryRunner is a TeamRunner that produces deterministic placeholder output
// without contacting an agent runtime. It lets an operator validate a
// workflow declaration end to end: ordering, input resolution, job state,
// and artifact layout all behave exactly as in a real run.
type DryRunner struct{}

// NewDryRunner creates a DryRunner.
func NewDryRunner() *DryRunner {
	return &DryRunner{}
}

// RunTeam returns a placeholder artifact summarizing what a real runner
// would have received, plus a single-step log.
func (d *DryRunner) RunTeam(_ context.Context, req TeamRequest) (*TeamResult, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s (dry run)\n\n", req.Team)
	sb.WriteString("Placeholder artifact produced without agent execution.\n\n")
	fmt.Fprintf(&sb, "- instructions: %d bytes\n", len(req.Instructions))
	fmt.Fprintf(&sb, "- context: %d bytes, %d labeled block(s)\n", len(req.Context), countBlocks(req.Context))
	if req.Params.Model != "" {
		fmt.Fprintf(&sb, "- model: %s\n", req.Params.Model)
	}

	return &TeamResult{
		Output: sb.String(),
		Steps: []Step{
			{Agent: "dry-run", Content: fmt.Sprintf("validated work order for %s", req.Team)},
		},
	}, nil
}

// countBlocks counts framed labeled blocks by their begin markers.
func countBlocks(context string) int {
	n := 0
	for _, line := range strings.Split(context, "\n") {
		if strings.HasPrefix(line, "START ") {
			n++
		}
	}
	return n
}
