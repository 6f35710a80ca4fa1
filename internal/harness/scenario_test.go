package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Valid(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/alice_bob_gold.yaml")
	require.NoError(t, err)

	assert.Equal(t, "alice_bob_gold", scenario.Name)
	assert.Equal(t, "tx", scenario.RefPrefix)
	assert.Len(t, scenario.Setup, 3)
	require.Len(t, scenario.Flow, 4)

	first := scenario.Flow[0]
	assert.Equal(t, "transfer", first.Invoke)
	assert.Equal(t, 100, first.Args["amount"])
	require.NotNil(t, first.Expect)
	assert.Equal(t, 100, first.Expect.Result["new_total"])

	assert.Equal(t, []string{"Alice:70"}, scenario.Flow[3].Expect.Rows)
	assert.Len(t, scenario.Assertions, 3)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_RejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
flow:
  - invoke: balance
    args: { sender: 1, receiver: 2, token: 1 }
    expects:
      case: ok
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: "flow:\n  - invoke: history\n",
			want: "name is required",
		},
		{
			name: "empty flow",
			yaml: "name: x\n",
			want: "flow must contain at least one step",
		},
		{
			name: "unknown operation",
			yaml: "name: x\nflow:\n  - invoke: mint\n",
			want: `unknown operation "mint"`,
		},
		{
			name: "setup with expect",
			yaml: "name: x\nsetup:\n  - invoke: create_user\n    args: { name: A }\n    expect: { case: ok }\nflow:\n  - invoke: history\n",
			want: "setup steps cannot have expect",
		},
		{
			name: "balance assertion without args",
			yaml: "name: x\nflow:\n  - invoke: history\nassertions:\n  - type: balance\n    expect: { total: 1 }\n",
			want: "args.sender is required for balance",
		},
		{
			name: "trace_count without op",
			yaml: "name: x\nflow:\n  - invoke: history\nassertions:\n  - type: trace_count\n    count: 1\n",
			want: "op is required for trace_count",
		},
		{
			name: "unknown assertion",
			yaml: "name: x\nflow:\n  - invoke: history\nassertions:\n  - type: final_state\n",
			want: `unknown assertion type "final_state"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestScenarioFiles_AllParse(t *testing.T) {
	entries, err := os.ReadDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		t.Run(e.Name(), func(t *testing.T) {
			_, err := LoadScenario(filepath.Join("testdata/scenarios", e.Name()))
			assert.NoError(t, err)
		})
	}
}
