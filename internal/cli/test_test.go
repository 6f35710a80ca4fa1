package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	harnessScenarios = "../harness/testdata/scenarios"
	harnessGolden    = "../harness/testdata/golden"
)

const passingScenario = `name: one_transfer
flow:
  - invoke: transfer
    args: { sender: Alice, receiver: Bob, token: Gold, amount: 10 }
    expect:
      result: { new_total: 10 }
`

const failingScenario = `name: wrong_total
flow:
  - invoke: transfer
    args: { sender: Alice, receiver: Bob, token: Gold, amount: 10 }
    expect:
      result: { new_total: 11 }
`

func writeScenario(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestTestCommandMissingArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/scenarios"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{t.TempDir()})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{t.TempDir()})

	err := cmd.Execute()
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
}

func TestTestHelpText(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "ledger scenarios")
	assert.Contains(t, output, "--update")
	assert.Contains(t, output, "--filter")
	assert.Contains(t, output, "--golden-dir")
	assert.Contains(t, output, "scenarios-dir")
}

func TestTestCommand_HarnessScenariosPass(t *testing.T) {
	stdout, _, code := runCLI(t, "test", harnessScenarios, "--golden-dir", harnessGolden)
	require.Equal(t, ExitSuccess, code, stdout)
	assert.Contains(t, stdout, "✓ alice_bob_gold")
	assert.Contains(t, stdout, "✓ missing_vs_zero")
	assert.Contains(t, stdout, "✓ aggregate_listings")
	assert.Contains(t, stdout, "Test Summary: 3 passed, 0 failed, 3 total")
}

func TestTestCommand_Filter(t *testing.T) {
	stdout, _, code := runCLI(t, "--format", "json", "test", harnessScenarios, "--golden-dir", harnessGolden, "--filter", "alice_*")
	require.Equal(t, ExitSuccess, code, stdout)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "alice_bob_gold", resp.Data.Scenarios[0].Name)
}

func TestTestCommand_FailureIsReportedOnce(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "wrong_total.yaml", failingScenario)

	stdout, stderr, code := runCLI(t, "-v", "test", dir)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "✗ wrong_total")
	assert.Contains(t, stdout, "new_total")
	assert.Contains(t, stdout, "#1 invoke transfer", "verbose failures print the trace")
	assert.Contains(t, stdout, "Test Summary: 0 passed, 1 failed, 1 total")
	assert.NotContains(t, stderr, "Error [", "the summary already reported the failure")
}

func TestTestCommand_FailureJSON(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "wrong_total.yaml", failingScenario)
	writeScenario(t, dir, "one_transfer.yaml", passingScenario)

	stdout, _, code := runCLI(t, "--format", "json", "test", dir)
	assert.Equal(t, ExitFailure, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestTestCommand_UpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "one_transfer.yaml", passingScenario)

	stdout, _, code := runCLI(t, "test", dir, "--update")
	require.Equal(t, ExitSuccess, code, stdout)
	assert.Contains(t, stdout, "✓ one_transfer (golden updated)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "one_transfer.golden"))
	require.NoError(t, err)
	assert.Equal(t, ""+
		"scenario: one_transfer\n"+
		"#1 invoke transfer amount=10 receiver=Bob sender=Alice token=Gold\n"+
		"#2 complete ok had_previous=false new_total=10 previous=0 ref=ref-000001 seq=1\n", string(golden))

	stdout, _, code = runCLI(t, "test", dir)
	require.Equal(t, ExitSuccess, code, stdout)

	// A changed trace no longer matches.
	writeScenario(t, dir, "one_transfer.yaml", passingScenario+`  - invoke: transfer
    args: { sender: Alice, receiver: Bob, token: Gold, amount: 1 }
`)
	stdout, _, code = runCLI(t, "test", dir)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "trace does not match golden file")
}

func TestTestCommand_LoadError(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yaml", "name: broken\nflow:\n  - invoke: teleport\n")

	stdout, _, code := runCLI(t, "test", dir)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "✗ broken.yaml")
	assert.Contains(t, stdout, "failed to load scenario")
}

func TestFindScenarioFiles(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test1.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test2.yml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test1.golden"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFindScenarioFilesWithFilter(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "alice-send.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "alice-list.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "bob-send.yaml"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "alice-*")
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.Contains(t, filepath.Base(f), "alice-")
	}

	_, err = findScenarioFiles(tmpDir, "[")
	assert.Error(t, err)
}

func TestFindScenarioFilesSubdirectories(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "subdir")
	require.NoError(t, os.MkdirAll(subDir, 0755))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "root.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(subDir, "sub.yaml"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestIndentLines(t *testing.T) {
	assert.Equal(t, "  a\n  b\n", indentLines("a\nb\n", "  "))
	assert.Equal(t, "", indentLines("", "  "))
}
