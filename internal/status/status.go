// Package status reports the completion state of jobs against a workflow.
package status

import (
	"time"

	"github.com/dusk-indust/docpipe/internal/jobstore"
	"github.com/dusk-indust/docpipe/internal/workflow"
)

// TeamInfo describes the completion state of a single team within a job.
type TeamInfo struct {
	Name     string
	Complete bool
	Output   string // absolute path when complete, empty otherwise
	StepLog  string // absolute path when complete, empty otherwise
}

// JobStatus holds the status of one job.
type JobStatus struct {
	ID           int
	DocumentType string
	CreatedAt    time.Time
	Teams        []TeamInfo // in execution order
	NextTeam     string     // empty if all teams are complete
}

// ForJob returns detailed status for a single job, with teams listed in
// the workflow's execution order.
func ForJob(store *jobstore.Store, wf *workflow.Workflow, id int) (JobStatus, error) {
	job, err := store.Load(id)
	if err != nil {
		return JobStatus{}, err
	}

	order, err := wf.Order()
	if err != nil {
		return JobStatus{}, err
	}

	js := JobStatus{
		ID:           job.ID,
		DocumentType: job.DocumentType,
		CreatedAt:    job.CreatedAt,
	}

	for _, name := range order {
		rec := job.Team(name)
		info := TeamInfo{Name: name, Complete: rec.Status == jobstore.StatusCompleted}
		if info.Complete {
			info.Output = job.Path(rec.Output)
			info.StepLog = job.Path(rec.StepLog)
		} else if js.NextTeam == "" {
			js.NextTeam = name
		}
		js.Teams = append(js.Teams, info)
	}

	return js, nil
}

// List returns the status of every job under the store root, ascending by id.
func List(store *jobstore.Store, wf *workflow.Workflow) ([]JobStatus, error) {
	ids, err := store.List()
	if err != nil {
		return nil, err
	}

	var results []JobStatus
	for _, id := range ids {
		js, err := ForJob(store, wf, id)
		if err != nil {
			return nil, err
		}
		results = append(results, js)
	}
	return results, nil
}
