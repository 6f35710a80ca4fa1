package harness

import (
	"fmt"
	"sort"
	"strings"
)

// Trace event types.
const (
	EventInvocation = "invocation"
	EventCompletion = "completion"
)

// CaseOK is the completion case of a step that returned no error.
const CaseOK = "ok"

// TraceEvent is one invocation or completion in a scenario trace.
type TraceEvent struct {
	Type   string         `json:"type"`
	Op     string         `json:"op,omitempty"`
	Args   map[string]any `json:"args,omitempty"`
	Case   string         `json:"case,omitempty"`
	Result map[string]any `json:"result,omitempty"`
	Seq    int64          `json:"seq"`
}

// String renders the event as one trace line, e.g.
//
//	#3 invoke transfer amount=100 receiver=Bob sender=Alice token=Gold
//	#4 complete ok new_total=100 previous=0
func (e TraceEvent) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d ", e.Seq)
	if e.Type == EventInvocation {
		b.WriteString("invoke ")
		b.WriteString(e.Op)
		writeFields(&b, e.Args)
	} else {
		b.WriteString("complete ")
		b.WriteString(e.Case)
		writeFields(&b, e.Result)
	}
	return b.String()
}

func writeFields(b *strings.Builder, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, m[k])
	}
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion matched.
	Pass bool `json:"pass"`

	// Trace contains all invocations and completions in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains mismatch messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// TraceText renders the trace one event per line.
func (r *Result) TraceText() string {
	var b strings.Builder
	for _, e := range r.Trace {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Result) addInvocation(op string, args map[string]any) {
	r.Trace = append(r.Trace, TraceEvent{
		Type: EventInvocation,
		Op:   op,
		Args: args,
		Seq:  int64(len(r.Trace) + 1),
	})
}

func (r *Result) addCompletion(outcome string, result map[string]any) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:   EventCompletion,
		Case:   outcome,
		Result: result,
		Seq:    int64(len(r.Trace) + 1),
	})
}
