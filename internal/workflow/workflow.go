// Package workflow loads declarative workflow files and validates them into
// an executable team graph. A workflow declares an ordered list of teams;
// each team names its dependencies, its labeled inputs, and the artifact it
// produces. Dependency resolution and topological ordering live in graph.go.
package workflow

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceKind identifies the variant of a labeled-input source reference.
// The set is closed: a labeled input reads a static file, another team's
// output artifact, or another team's step log. Nothing else.
type SourceKind string

const (
	// SourceFile reads a static file relative to the job's asset snapshot.
	SourceFile SourceKind = "file"

	// SourceOutput reads the output artifact of another team in the same job.
	SourceOutput SourceKind = "output"

	// SourceStepLog reads the recorded step log of another team in the same job.
	SourceStepLog SourceKind = "steplog"
)

// SourceRef is a tagged reference to the content behind a labeled input.
// Ref is a file path for SourceFile and a team name otherwise. References
// are resolved lazily at execution time, so a team-output reference may
// point at an artifact that does not exist until its producer has run.
type SourceRef struct {
	Kind SourceKind
	Ref  string
}

func (r SourceRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.Ref)
}

// Input is one labeled input declared by a team. Declaration order is
// significant: it becomes the order of labeled blocks in the assembled
// context message.
type Input struct {
	Label  string
	Source SourceRef
}

// ModelParams carries execution parameters for the team-execution runner.
// The orchestrator treats these as opaque; workflow-level defaults are
// merged into each team at load time, with team values winning.
type ModelParams struct {
	Model              string  `yaml:"model"`
	Temperature        float64 `yaml:"temperature"`
	MaxMessages        int     `yaml:"max_messages"`
	TerminationKeyword string  `yaml:"termination_keyword"`
}

// Team is one unit of pipeline work. Immutable once loaded.
type Team struct {
	// Name uniquely identifies the team within its workflow.
	Name string

	// Template is the path to the team's fixed instruction file, relative
	// to the workflow file's directory. Instruction content is passed to
	// the runner verbatim; no substitution is ever applied to it.
	Template string

	// Output is the base name of the artifact the team produces. The job
	// store derives the output and step-log file names from it.
	Output string

	// DependsOn lists the names of teams that must complete first.
	DependsOn []string

	// Inputs are the team's labeled inputs, in declaration order.
	Inputs []Input

	// Params are the execution parameters handed to the runner.
	Params ModelParams
}

// Workflow is an ordered set of team definitions for one document type.
type Workflow struct {
	DocumentType string
	Teams        []Team

	index map[string]int // team name -> position in Teams
}

// Team returns the team with the given name, or nil if not declared.
func (w *Workflow) Team(name string) *Team {
	i, ok := w.index[name]
	if !ok {
		return nil
	}
	return &w.Teams[i]
}

// --- YAML loading ---

type workflowFile struct {
	Workflow struct {
		DocumentType string `yaml:"document_type"`
		ModelParams  `yaml:",inline"`
		Teams        []teamEntry `yaml:"teams"`
	} `yaml:"workflow"`
}

type teamEntry struct {
	Name        string       `yaml:"name"`
	Template    string       `yaml:"template"`
	Output      string       `yaml:"output"`
	DependsOn   []string     `yaml:"depends_on"`
	Inputs      []inputEntry `yaml:"inputs"`
	ModelParams `yaml:",inline"`
}

// inputEntry is the YAML form of a labeled input. Exactly one of File,
// OutputOf, or StepsOf must be set; the three keys are the closed set of
// source variants.
type inputEntry struct {
	Label    string `yaml:"label"`
	File     string `yaml:"file"`
	OutputOf string `yaml:"output_of"`
	StepsOf  string `yaml:"steps_of"`
}

// Load reads and parses a workflow declaration from disk.
func Load(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("workflow: read %s: %w", path, err)
	}
	wf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("workflow: parse %s: %w", path, err)
	}
	return wf, nil
}

// Parse parses a workflow declaration and validates its structure: required
// fields, unique team names, unique output names, and well-formed labeled
// inputs. Dependency validation (unknown references, cycles) is deferred to
// Order, which has the full graph in hand.
func Parse(data []byte) (*Workflow, error) {
	var file workflowFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Workflow.Teams) == 0 {
		return nil, fmt.Errorf("missing or empty workflow.teams section")
	}

	defaults := file.Workflow.ModelParams

	wf := &Workflow{
		DocumentType: file.Workflow.DocumentType,
		index:        make(map[string]int, len(file.Workflow.Teams)),
	}

	outputs := make(map[string]string) // output name -> owning team

	for _, entry := range file.Workflow.Teams {
		if entry.Name == "" {
			return nil, fmt.Errorf("team entry missing required 'name' field")
		}
		if entry.Template == "" {
			return nil, fmt.Errorf("team %q missing required 'template' field", entry.Name)
		}
		if entry.Output == "" {
			return nil, fmt.Errorf("team %q missing required 'output' field", entry.Name)
		}
		if _, dup := wf.index[entry.Name]; dup {
			return nil, fmt.Errorf("duplicate team name %q", entry.Name)
		}
		if owner, dup := outputs[entry.Output]; dup {
			return nil, fmt.Errorf("teams %q and %q both declare output %q", owner, entry.Name, entry.Output)
		}
		outputs[entry.Output] = entry.Name

		inputs, err := parseInputs(entry)
		if err != nil {
			return nil, err
		}

		wf.index[entry.Name] = len(wf.Teams)
		wf.Teams = append(wf.Teams, Team{
			Name:      entry.Name,
			Template:  entry.Template,
			Output:    entry.Output,
			DependsOn: entry.DependsOn,
			Inputs:    inputs,
			Params:    mergeParams(defaults, entry.ModelParams),
		})
	}

	// A static file input whose name shadows a declared output artifact is
	// almost certainly a mistyped output_of reference: file inputs resolve
	// against the asset snapshot, so such a declaration would silently read
	// the wrong content. Reject it.
	for _, team := range wf.Teams {
		for _, in := range team.Inputs {
			if in.Source.Kind != SourceFile {
				continue
			}
			base := strings.TrimSuffix(in.Source.Ref, ".md")
			if owner, shadows := outputs[base]; shadows {
				return nil, fmt.Errorf("team %q input %q references file %q, which names team %q's output artifact; use output_of instead",
					team.Name, in.Label, in.Source.Ref, owner)
			}
		}
	}

	return wf, nil
}

func parseInputs(entry teamEntry) ([]Input, error) {
	inputs := make([]Input, 0, len(entry.Inputs))
	for _, in := range entry.Inputs {
		if in.Label == "" {
			return nil, fmt.Errorf("team %q has a labeled input missing its 'label' field", entry.Name)
		}

		var refs []SourceRef
		if in.File != "" {
			refs = append(refs, SourceRef{Kind: SourceFile, Ref: in.File})
		}
		if in.OutputOf != "" {
			refs = append(refs, SourceRef{Kind: SourceOutput, Ref: in.OutputOf})
		}
		if in.StepsOf != "" {
			refs = append(refs, SourceRef{Kind: SourceStepLog, Ref: in.StepsOf})
		}
		if len(refs) != 1 {
			return nil, fmt.Errorf("team %q input %q must set exactly one of file, output_of, steps_of",
				entry.Name, in.Label)
		}

		inputs = append(inputs, Input{Label: in.Label, Source: refs[0]})
	}
	return inputs, nil
}

// mergeParams applies workflow-level defaults to a team's parameters.
// A zero value in the team entry means "inherit".
func mergeParams(defaults, team ModelParams) ModelParams {
	merged := team
	if merged.Model == "" {
		merged.Model = defaults.Model
	}
	if merged.Temperature == 0 {
		merged.Temperature = defaults.Temperature
	}
	if merged.MaxMessages == 0 {
		merged.MaxMessages = defaults.MaxMessages
	}
	if merged.TerminationKeyword == "" {
		merged.TerminationKeyword = defaults.TerminationKeyword
	}
	return merged
}
