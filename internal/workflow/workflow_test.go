package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWorkflow = `
workflow:
  document_type: RAQ
  model: gpt-4o
  temperature: 0.2
  max_messages: 40
  termination_keyword: TERMINATE
  teams:
    - name: Content_Planning_Team
      template: templates/planning.md
      output: planning_output
      inputs:
        - label: CONTENT BRIEF
          file: brand_content_brief.md
    - name: Content_Production_Team
      template: templates/production.md
      output: production_output
      depends_on: [Content_Planning_Team]
      temperature: 0.7
      inputs:
        - label: CONTENT PLAN
          output_of: Content_Planning_Team
        - label: PLANNING STEPS
          steps_of: Content_Planning_Team
    - name: Process_Analysis_Team
      template: templates/analysis.md
      output: process_analysis
      depends_on: [Content_Production_Team]
      inputs:
        - label: PRODUCTION STEPS
          steps_of: Content_Production_Team
`

func TestParse_SampleWorkflow(t *testing.T) {
	wf, err := Parse([]byte(sampleWorkflow))
	require.NoError(t, err)

	assert.Equal(t, "RAQ", wf.DocumentType)
	require.Len(t, wf.Teams, 3)

	planning := wf.Team("Content_Planning_Team")
	require.NotNil(t, planning)
	assert.Equal(t, "planning_output", planning.Output)
	require.Len(t, planning.Inputs, 1)
	assert.Equal(t, "CONTENT BRIEF", planning.Inputs[0].Label)
	assert.Equal(t, SourceRef{Kind: SourceFile, Ref: "brand_content_brief.md"}, planning.Inputs[0].Source)

	production := wf.Team("Content_Production_Team")
	require.NotNil(t, production)
	require.Len(t, production.Inputs, 2)
	assert.Equal(t, SourceOutput, production.Inputs[0].Source.Kind)
	assert.Equal(t, SourceStepLog, production.Inputs[1].Source.Kind)
	assert.Equal(t, "Content_Planning_Team", production.Inputs[1].Source.Ref)
}

// Workflow-level parameters are defaults: a team value wins where set, and
// inherits otherwise.
func TestParse_ParamDefaults(t *testing.T) {
	wf, err := Parse([]byte(sampleWorkflow))
	require.NoError(t, err)

	planning := wf.Team("Content_Planning_Team")
	assert.Equal(t, "gpt-4o", planning.Params.Model)
	assert.Equal(t, 0.2, planning.Params.Temperature)
	assert.Equal(t, 40, planning.Params.MaxMessages)
	assert.Equal(t, "TERMINATE", planning.Params.TerminationKeyword)

	production := wf.Team("Content_Production_Team")
	assert.Equal(t, 0.7, production.Params.Temperature, "team override should win")
	assert.Equal(t, "gpt-4o", production.Params.Model, "unset fields inherit the default")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "empty teams",
			yaml:    "workflow:\n  teams: []\n",
			wantErr: "empty workflow.teams",
		},
		{
			name: "missing name",
			yaml: `
workflow:
  teams:
    - template: t.md
      output: out
`,
			wantErr: "missing required 'name'",
		},
		{
			name: "missing template",
			yaml: `
workflow:
  teams:
    - name: A
      output: out
`,
			wantErr: "missing required 'template'",
		},
		{
			name: "duplicate team name",
			yaml: `
workflow:
  teams:
    - {name: A, template: a.md, output: a}
    - {name: A, template: b.md, output: b}
`,
			wantErr: "duplicate team name",
		},
		{
			name: "duplicate output name",
			yaml: `
workflow:
  teams:
    - {name: A, template: a.md, output: shared}
    - {name: B, template: b.md, output: shared}
`,
			wantErr: `both declare output "shared"`,
		},
		{
			name: "input with no source",
			yaml: `
workflow:
  teams:
    - name: A
      template: a.md
      output: a
      inputs:
        - label: X
`,
			wantErr: "exactly one of file, output_of, steps_of",
		},
		{
			name: "input with two sources",
			yaml: `
workflow:
  teams:
    - name: A
      template: a.md
      output: a
      inputs:
        - label: X
          file: x.md
          output_of: B
`,
			wantErr: "exactly one of file, output_of, steps_of",
		},
		{
			name: "file input shadows an output artifact",
			yaml: `
workflow:
  teams:
    - {name: A, template: a.md, output: plan}
    - name: B
      template: b.md
      output: b
      inputs:
        - label: PLAN
          file: plan.md
`,
			wantErr: "use output_of instead",
		},
		{
			name: "input missing label",
			yaml: `
workflow:
  teams:
    - name: A
      template: a.md
      output: a
      inputs:
        - file: x.md
`,
			wantErr: "missing its 'label'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoad_FromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleWorkflow), 0o644))

	wf, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, wf.Teams, 3)
}
