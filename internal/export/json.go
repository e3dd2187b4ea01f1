package export

import (
	"time"

	"github.com/dusk-indust/docpipe/internal/status"
)

// JobExport is the top-level JSON export structure for one job.
type JobExport struct {
	ID           int          `json:"id"`
	DocumentType string       `json:"documentType,omitempty"`
	CreatedAt    string       `json:"createdAt"`
	ExportedAt   string       `json:"exportedAt"`
	Teams        []TeamExport `json:"teams"`
	NextTeam     string       `json:"nextTeam,omitempty"`
}

// TeamExport describes one team's state within an exported job.
type TeamExport struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Output  string `json:"output,omitempty"`
	StepLog string `json:"stepLog,omitempty"`
}

// ExportJob converts a job status into its JSON export structure.
func ExportJob(js status.JobStatus) *JobExport {
	export := &JobExport{
		ID:           js.ID,
		DocumentType: js.DocumentType,
		CreatedAt:    js.CreatedAt.UTC().Format(time.RFC3339),
		ExportedAt:   time.Now().UTC().Format(time.RFC3339),
		NextTeam:     js.NextTeam,
	}

	for _, team := range js.Teams {
		s := "pending"
		if team.Complete {
			s = "complete"
		}
		export.Teams = append(export.Teams, TeamExport{
			Name:    team.Name,
			Status:  s,
			Output:  team.Output,
			StepLog: team.StepLog,
		})
	}

	return export
}
