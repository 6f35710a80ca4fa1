package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pointsx/internal/store"
)

var scenarioFiles = []string{
	"alice_bob_gold.yaml",
	"missing_vs_zero.yaml",
	"aggregate_listings.yaml",
}

func TestRun_Golden(t *testing.T) {
	for _, file := range scenarioFiles {
		t.Run(file, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata/scenarios", file))
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRunOn_SQLiteMatchesMemory(t *testing.T) {
	for _, file := range scenarioFiles {
		t.Run(file, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata/scenarios", file))
			require.NoError(t, err)

			st, err := store.Open(filepath.Join(t.TempDir(), "scenario.db"))
			require.NoError(t, err)
			defer st.Close()

			onDisk, err := RunOn(context.Background(), scenario, st)
			require.NoError(t, err)
			inMemory, err := Run(scenario)
			require.NoError(t, err)

			assert.True(t, onDisk.Pass, "errors: %v", onDisk.Errors)
			assert.Equal(t, inMemory.TraceText(), onDisk.TraceText())
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/aggregate_listings.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
}

func TestRun_ExpectMismatchFails(t *testing.T) {
	scenario := &Scenario{
		Name: "mismatch",
		Flow: []Step{
			{
				Invoke: "transfer",
				Args:   map[string]any{"sender": "Alice", "receiver": "Bob", "token": "Gold", "amount": 5},
				Expect: &ExpectClause{Result: map[string]any{"new_total": 6}},
			},
			{
				Invoke: "balance",
				Args:   map[string]any{"sender": "Alice", "receiver": "Nobody", "token": "Gold"},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "flow[0] transfer: new_total: expected 6, got 5")
	assert.Contains(t, result.Errors[1], `flow[1] balance: expected case "ok", got "NOT_FOUND"`)
}

func TestRun_ExpectedErrorCaseSucceeded(t *testing.T) {
	scenario := &Scenario{
		Name: "unexpected_ok",
		Flow: []Step{
			{
				Invoke: "create_user",
				Args:   map[string]any{"name": "Alice"},
				Expect: &ExpectClause{Case: "INVALID_INPUT"},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], `expected case "INVALID_INPUT", got "ok"`)
}

func TestRun_SetupFailureAborts(t *testing.T) {
	scenario := &Scenario{
		Name: "bad_setup",
		Setup: []Step{
			{Invoke: "create_user", Args: map[string]any{"name": "  "}},
		},
		Flow: []Step{{Invoke: "history"}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setup step 0: create_user failed")
}

func TestRun_MalformedArgs(t *testing.T) {
	scenario := &Scenario{
		Name: "bad_args",
		Flow: []Step{
			{Invoke: "transfer", Args: map[string]any{"sender": "Alice", "receiver": "Bob", "token": "Gold"}},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "args.amount is required")
}

func TestTraceEvent_String(t *testing.T) {
	inv := TraceEvent{Type: EventInvocation, Op: "balance", Args: map[string]any{"token": 1, "sender": "A"}, Seq: 3}
	assert.Equal(t, "#3 invoke balance sender=A token=1", inv.String())

	comp := TraceEvent{Type: EventCompletion, Case: "NOT_FOUND", Seq: 4}
	assert.Equal(t, "#4 complete NOT_FOUND", comp.String())
}
