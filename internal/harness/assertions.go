package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/pointsx/internal/ledger"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			if event.Type == EventInvocation {
				fmt.Fprintf(&buf, "  %s\n", event)
			}
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns one message per
// failure.
func EvaluateAssertions(ctx context.Context, eng *ledger.Engine, result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertBalance:
			err = assertBalance(ctx, eng, a)
		case AssertHistoryCount:
			err = assertHistoryCount(ctx, eng, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

// assertBalance checks the triple's current total with subset semantics on
// {total, present}.
func assertBalance(ctx context.Context, eng *ledger.Engine, a Assertion) error {
	sender, receiver, token, err := tripleArgs(a.Args)
	if err != nil {
		return err
	}
	total, ok, err := eng.CurrentTotal(ctx, sender, receiver, token)
	if err != nil {
		return &AssertionError{
			Type:     AssertBalance,
			Expected: fmt.Sprintf("balance %v", a.Expect),
			Actual:   fmt.Sprintf("error: %v", err),
		}
	}
	if msgs := matchFields(a.Expect, map[string]any{"total": total, "present": ok}); len(msgs) > 0 {
		return &AssertionError{
			Type:     AssertBalance,
			Expected: fmt.Sprintf("balance %v", a.Expect),
			Actual:   strings.Join(msgs, "; "),
		}
	}
	return nil
}

// assertHistoryCount checks how many ledger entries match the filter.
func assertHistoryCount(ctx context.Context, eng *ledger.Engine, a Assertion) error {
	filter, err := historyFilter(a.Args)
	if err != nil {
		return err
	}
	recs, err := eng.History(ctx, filter)
	if err != nil {
		return err
	}
	if len(recs) != a.Count {
		return &AssertionError{
			Type:     AssertHistoryCount,
			Expected: fmt.Sprintf("%d entries", a.Count),
			Actual:   fmt.Sprintf("%d entries", len(recs)),
		}
	}
	return nil
}

// assertTraceCount checks the op was invoked exactly Count times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Type == EventInvocation && event.Op == a.Op {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Op),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceOrder checks the ops appear in order. Ops need not be
// consecutive; each is matched at its first occurrence after the previous.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, event := range trace {
		if next == len(a.Ops) {
			break
		}
		if event.Type == EventInvocation && event.Op == a.Ops[next] {
			next++
		}
	}

	if next < len(a.Ops) {
		return &AssertionError{
			Type:     AssertTraceOrder,
			Expected: fmt.Sprintf("ops in order: %v", a.Ops),
			Actual:   fmt.Sprintf("%s not found after %v", a.Ops[next], a.Ops[:next]),
			Trace:    trace,
		}
	}
	return nil
}
