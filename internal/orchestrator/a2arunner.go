package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dusk-indust/docpipe/internal/a2a"
)

// Compile-time interface check.
var _ TeamRunner = (*A2ARunner)(nil)

// A2ARunner executes teams by sending their instruction content and
// assembled context to a remote A2A agent endpoint as a blocking task. The
// agent's first artifact becomes the team output; its recorded history
// becomes the step log.
type A2ARunner struct {
	client   a2a.Client
	endpoint string
}

// NewA2ARunner creates an A2ARunner against a single agent endpoint.
func NewA2ARunner(client a2a.Client, endpoint string) *A2ARunner {
	return &A2ARunner{client: client, endpoint: endpoint}
}

// Verify probes the endpoint by fetching its agent card. Run entry points
// call this before allocating a job so a dead endpoint fails fast instead
// of burning a job id.
func (r *A2ARunner) Verify(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	card, err := r.client.DiscoverAgent(probeCtx, r.endpoint)
	if err != nil {
		return fmt.Errorf("agent endpoint %s unreachable: %w", r.endpoint, err)
	}
	if card.Name == "" {
		return fmt.Errorf("agent endpoint %s returned an unnamed agent card", r.endpoint)
	}
	return nil
}

// RunTeam sends the team's work order and blocks until the agent's task
// reaches a terminal state. No deadline is applied here: team execution is
// legitimately long-running, and cancellation belongs to ctx.
func (r *A2ARunner) RunTeam(ctx context.Context, req TeamRequest) (*TeamResult, error) {
	paramsPart, err := a2a.DataPart(req.Params)
	if err != nil {
		return nil, fmt.Errorf("a2a runner: encode params for team %s: %w", req.Team, err)
	}

	task, err := r.client.SendMessage(ctx, r.endpoint, a2a.SendMessageRequest{
		Message: a2a.Message{
			MessageID: uuid.NewString(),
			Role:      a2a.RoleUser,
			Parts: []a2a.Part{
				a2a.TextPart(req.Instructions),
				a2a.TextPart(req.Context),
				paramsPart,
			},
		},
		Configuration: &a2a.SendMessageConfig{Blocking: true},
	})
	if err != nil {
		return nil, fmt.Errorf("a2a runner: team %s: %w", req.Team, err)
	}

	if task.Status.State != a2a.TaskStateCompleted {
		return nil, fmt.Errorf("a2a runner: team %s: task %s ended in state %q: %s",
			req.Team, task.ID, task.Status.State, statusDetail(task))
	}
	if len(task.Artifacts) == 0 {
		return nil, fmt.Errorf("a2a runner: team %s: task %s completed with no artifacts", req.Team, task.ID)
	}

	return &TeamResult{
		Output: artifactText(task.Artifacts[0]),
		Steps:  stepsFromHistory(task.History),
	}, nil
}

// artifactText concatenates the text parts of an artifact.
func artifactText(art a2a.Artifact) string {
	var out string
	for _, part := range art.Parts {
		out += part.Text
	}
	return out
}

// stepsFromHistory converts the agent-side turns of a task history into
// steps. The agent name is taken from a message metadata "agent" key when
// present, falling back to the role.
func stepsFromHistory(history []a2a.Message) []Step {
	var steps []Step
	for _, msg := range history {
		if msg.Role != a2a.RoleAgent {
			continue
		}
		var content string
		for _, part := range msg.Parts {
			content += part.Text
		}
		steps = append(steps, Step{Agent: agentName(msg), Content: content})
	}
	return steps
}

func agentName(msg a2a.Message) string {
	if len(msg.Metadata) > 0 {
		var meta struct {
			Agent string `json:"agent"`
		}
		if err := json.Unmarshal(msg.Metadata, &meta); err == nil && meta.Agent != "" {
			return meta.Agent
		}
	}
	return string(msg.Role)
}

// statusDetail extracts the human-readable cause attached to a failed task.
func statusDetail(task *a2a.Task) string {
	if task.Status.Message == nil {
		return "no detail provided"
	}
	var detail string
	for _, part := range task.Status.Message.Parts {
		detail += part.Text
	}
	if detail == "" {
		return "no detail provided"
	}
	return detail
}
