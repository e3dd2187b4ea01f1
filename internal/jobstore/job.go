// Package jobstore persists per-job pipeline state on disk. A job owns a
// numbered directory under the store root containing job.json, an asset
// snapshot, and each completed team's output artifact and step log. The
// next job id lives in a counter file that is persisted before an id is
// ever handed out, so a crash can leave a gap but never a collision.
package jobstore

import (
	"fmt"
	"path/filepath"
	"time"
)

// Status is the completion state of one team within a job.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusCompleted  Status = "completed"
)

// TeamRecord tracks one team's state within a job. Output and StepLog are
// paths relative to the job directory; both are set if and only if the
// status is completed.
type TeamRecord struct {
	Status  Status `json:"status"`
	Output  string `json:"output,omitempty"`
	StepLog string `json:"steplog,omitempty"`
}

// Job is the durable state of one pipeline run. Jobs are created by
// Store.Allocate, mutated through Store methods, and never deleted by the
// orchestrator.
type Job struct {
	ID           int                   `json:"id"`
	DocumentType string                `json:"document_type,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	AssetsDir    string                `json:"assets_dir"`
	Teams        map[string]TeamRecord `json:"teams"`

	dir string // absolute job directory, set on load/allocate
}

// Dir returns the absolute path of the job's directory.
func (j *Job) Dir() string {
	return j.dir
}

// Path resolves a job-relative path (such as a TeamRecord location) to an
// absolute path.
func (j *Job) Path(rel string) string {
	return filepath.Join(j.dir, rel)
}

// Team returns the record for a team, defaulting to not-started for teams
// the job has never seen.
func (j *Job) Team(name string) TeamRecord {
	if rec, ok := j.Teams[name]; ok {
		return rec
	}
	return TeamRecord{Status: StatusNotStarted}
}

// NotFoundError reports a job id with no corresponding state on disk.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("jobstore: job %04d not found", e.ID)
}

// jobDirName formats a job id as its 4-digit directory name.
func jobDirName(id int) string {
	return fmt.Sprintf("%04d", id)
}
