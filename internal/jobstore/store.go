package jobstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	counterFile = "jobid.txt"
	stateFile   = "job.json"
	assetsDir   = "assets"
)

// Store manages job state under a single root directory, typically
// output/<document-type>/. One Store instance per process per root; the
// design assumes a single operator and does not take cross-process locks.
type Store struct {
	root string
}

// New creates a Store rooted at dir. The directory is created lazily on
// first allocation.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Allocate reserves the next sequential job id and creates the job's
// directory skeleton. The counter file is rewritten durably before the job
// is returned: a crash between the counter write and first use leaves an
// unused id, never a reused one.
func (s *Store) Allocate(documentType string) (*Job, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("jobstore: create root: %w", err)
	}

	next, err := s.nextID()
	if err != nil {
		return nil, err
	}
	if err := s.writeCounter(next); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, jobDirName(next))
	if err := os.MkdirAll(filepath.Join(dir, assetsDir), 0o755); err != nil {
		return nil, fmt.Errorf("jobstore: create job dir: %w", err)
	}

	job := &Job{
		ID:           next,
		DocumentType: documentType,
		CreatedAt:    time.Now().UTC(),
		AssetsDir:    assetsDir,
		Teams:        make(map[string]TeamRecord),
		dir:          dir,
	}
	if err := s.Save(job); err != nil {
		return nil, err
	}
	return job, nil
}

// Load reads the persisted state for a job id.
func (s *Store) Load(id int) (*Job, error) {
	dir := filepath.Join(s.root, jobDirName(id))
	data, err := os.ReadFile(filepath.Join(dir, stateFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("jobstore: load job %04d: %w", id, err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("jobstore: decode job %04d: %w", id, err)
	}
	if job.Teams == nil {
		job.Teams = make(map[string]TeamRecord)
	}
	job.dir = dir
	return &job, nil
}

// Save atomically persists the job's state file via write-to-temp + rename.
func (s *Store) Save(job *Job) error {
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("jobstore: encode job %04d: %w", job.ID, err)
	}
	return atomicWrite(filepath.Join(job.dir, stateFile), data)
}

// ResetTeams marks the named teams not-started, clearing their recorded
// locations. Their previous artifacts remain on disk, superseded by the
// next completion. Teams not named keep their records untouched.
func (s *Store) ResetTeams(job *Job, names []string) error {
	for _, name := range names {
		job.Teams[name] = TeamRecord{Status: StatusNotStarted}
	}
	return s.Save(job)
}

// RecordCompletion durably writes a team's output artifact and step log,
// then marks the team completed with both locations in one state-file
// write. The status update happens only after both artifacts exist on disk,
// so an interruption at any point never yields a completed team with a
// missing artifact.
func (s *Store) RecordCompletion(job *Job, team, outputName string, output, stepLog []byte) (TeamRecord, error) {
	outRel := outputName + ".md"
	stepRel := outputName + "_steps.md"

	if err := atomicWrite(job.Path(outRel), output); err != nil {
		return TeamRecord{}, fmt.Errorf("jobstore: write output for team %s: %w", team, err)
	}
	if err := atomicWrite(job.Path(stepRel), stepLog); err != nil {
		return TeamRecord{}, fmt.Errorf("jobstore: write step log for team %s: %w", team, err)
	}

	// Both artifacts must be present before the record flips to completed.
	for _, rel := range []string{outRel, stepRel} {
		if _, err := os.Stat(job.Path(rel)); err != nil {
			return TeamRecord{}, fmt.Errorf("jobstore: artifact missing after write for team %s: %w", team, err)
		}
	}

	rec := TeamRecord{
		Status:  StatusCompleted,
		Output:  outRel,
		StepLog: stepRel,
	}
	job.Teams[team] = rec
	if err := s.Save(job); err != nil {
		return TeamRecord{}, err
	}
	return rec, nil
}

// IsComplete reports whether a team has a completed record in the job.
func (s *Store) IsComplete(job *Job, team string) bool {
	return job.Team(team).Status == StatusCompleted
}

// List returns the ids of all jobs under the store root, ascending.
func (s *Store) List() ([]int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("jobstore: list jobs: %w", err)
	}

	var ids []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// nextID reads the counter file and returns the next id to hand out.
func (s *Store) nextID() (int, error) {
	data, err := os.ReadFile(filepath.Join(s.root, counterFile))
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, fmt.Errorf("jobstore: read counter: %w", err)
	}
	current, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("jobstore: corrupt counter file: %w", err)
	}
	return current + 1, nil
}

func (s *Store) writeCounter(id int) error {
	if err := atomicWrite(filepath.Join(s.root, counterFile), []byte(jobDirName(id))); err != nil {
		return fmt.Errorf("jobstore: persist counter: %w", err)
	}
	return nil
}

// atomicWrite writes data to a sibling temp file and renames it into place.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
