package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/direct_layout.yaml")
	require.NoError(t, err)

	assert.Equal(t, "direct_layout", s.Name)
	assert.True(t, s.Direct)
	assert.Equal(t, filepath.Join("testdata", "layouts", "de.txt"), s.LayoutFile)
	assert.Equal(t, map[string]any{"prefix": "{F1}", "suffix": "{ENTER}"}, s.Config)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, []string{"ab"}, s.Steps[0].contents())
	assert.Equal(t, ir.OutcomeNotUnderstood, s.Steps[2].Expect.Outcome)
}

func TestLoadScenario_StepContents(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/detections.yaml")
	require.NoError(t, err)

	assert.Nil(t, s.Steps[0].contents())
	assert.Equal(t, []string{"a", "b"}, s.Steps[1].contents())
	assert.Equal(t, []string{"a\r\nb"}, s.Steps[3].contents())
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown field",
			content: "name: x\ndescription: d\nstep: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			content: "description: d\nsteps: [{content: a}]\nassertions: [{type: balanced}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: x\nsteps: [{content: a}]\nassertions: [{type: balanced}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			content: "name: x\ndescription: d\nassertions: [{type: balanced}]\n",
			wantErr: "steps list is required",
		},
		{
			name:    "no assertions",
			content: "name: x\ndescription: d\nsteps: [{content: a}]\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "layout in config",
			content: "name: x\ndescription: d\nconfig: {layout: de.json}\nsteps: [{content: a}]\nassertions: [{type: balanced}]\n",
			wantErr: "layout is not allowed",
		},
		{
			name:    "both layouts",
			content: "name: x\ndescription: d\nlayout: \"a=~65\"\nlayout_file: x.txt\nsteps: [{content: a}]\nassertions: [{type: balanced}]\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "missing layout file",
			content: "name: x\ndescription: d\nlayout_file: nope.txt\nsteps: [{content: a}]\nassertions: [{type: balanced}]\n",
			wantErr: "layout file not found",
		},
		{
			name:    "content and contents",
			content: "name: x\ndescription: d\nsteps: [{content: a, contents: [b]}]\nassertions: [{type: balanced}]\n",
			wantErr: "steps[0]: content and contents",
		},
		{
			name:    "unknown outcome",
			content: "name: x\ndescription: d\nsteps: [{content: a, expect: {outcome: fine}}]\nassertions: [{type: balanced}]\n",
			wantErr: `unknown outcome "fine"`,
		},
		{
			name:    "unknown assertion",
			content: "name: x\ndescription: d\nsteps: [{content: a}]\nassertions: [{type: vibes}]\n",
			wantErr: `unknown assertion type "vibes"`,
		},
		{
			name:    "outcome_order without outcomes",
			content: "name: x\ndescription: d\nsteps: [{content: a}]\nassertions: [{type: outcome_order}]\n",
			wantErr: "outcomes list is required",
		},
		{
			name:    "negative count",
			content: "name: x\ndescription: d\nsteps: [{content: a}]\nassertions: [{type: history_count, count: -1}]\n",
			wantErr: "count must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read scenario file")
}
