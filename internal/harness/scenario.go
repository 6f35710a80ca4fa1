package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a ledger test scenario: setup steps, a flow of
// operations with expected outcomes, and assertions over the final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RefPrefix prefixes generated transfer refs. Defaults to "ref".
	RefPrefix string `yaml:"ref_prefix,omitempty"`

	// Setup steps must all succeed; a failure aborts the run.
	Setup []Step `yaml:"setup,omitempty"`

	// Flow steps are checked against their expect clauses.
	Flow []Step `yaml:"flow"`

	// Assertions are evaluated after the flow.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step invokes one ledger operation.
type Step struct {
	// Invoke is the operation name (e.g. "transfer").
	Invoke string `yaml:"invoke"`

	// Args contains the operation arguments.
	Args map[string]any `yaml:"args"`

	// Expect specifies the expected outcome. If nil the step must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies an expected step outcome.
type ExpectClause struct {
	// Case is "ok" (the default) or an error code such as "NOT_FOUND".
	Case string `yaml:"case,omitempty"`

	// Result is a subset match on the step's result fields.
	Result map[string]any `yaml:"result,omitempty"`

	// Rows is an exact match on a listing's rendered rows.
	Rows []string `yaml:"rows,omitempty"`
}

// Assertion validates the final ledger or the trace.
type Assertion struct {
	// Type is one of balance, history_count, trace_count, trace_order.
	Type string `yaml:"type"`

	// Args selects the triple (balance) or filter (history_count).
	Args map[string]any `yaml:"args,omitempty"`

	// Expect holds expected fields (balance).
	Expect map[string]any `yaml:"expect,omitempty"`

	// Op is the operation counted by trace_count.
	Op string `yaml:"op,omitempty"`

	// Ops is the expected order for trace_order.
	Ops []string `yaml:"ops,omitempty"`

	// Count is the expected count (history_count, trace_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertBalance      = "balance"
	AssertHistoryCount = "history_count"
	AssertTraceCount   = "trace_count"
	AssertTraceOrder   = "trace_order"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow must contain at least one step")
	}
	for i, step := range s.Setup {
		if err := validateStep("setup", i, step); err != nil {
			return err
		}
		if step.Expect != nil {
			return fmt.Errorf("setup[%d]: setup steps cannot have expect", i)
		}
	}
	for i, step := range s.Flow {
		if err := validateStep("flow", i, step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(section string, index int, step Step) error {
	if step.Invoke == "" {
		return fmt.Errorf("%s[%d]: invoke is required", section, index)
	}
	if _, ok := operations[step.Invoke]; !ok {
		return fmt.Errorf("%s[%d]: unknown operation %q", section, index, step.Invoke)
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case AssertBalance:
		for _, k := range []string{"sender", "receiver", "token"} {
			if _, ok := a.Args[k]; !ok {
				return fmt.Errorf("assertions[%d]: args.%s is required for balance", index, k)
			}
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for balance", index)
		}
	case AssertHistoryCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for history_count", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
