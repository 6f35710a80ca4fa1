package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/pointsx/internal/ledger"
	"github.com/roach88/pointsx/internal/memstore"
	"github.com/roach88/pointsx/internal/testutil"
)

// Harness executes scenario steps against one engine.
type Harness struct {
	engine *ledger.Engine
	refs   *testutil.SequentialRefGenerator
	logger *slog.Logger
}

// outcome is what a step produced: its result fields or the ledger error
// it failed with.
type outcome struct {
	result map[string]any
	err    error
}

// operation runs one step. A returned error means the step was malformed;
// ledger failures are reported through outcome.err.
type operation func(ctx context.Context, h *Harness, args map[string]any) (outcome, error)

var operations = map[string]operation{
	"create_user":     opCreateUser,
	"create_token":    opCreateToken,
	"transfer":        opTransfer,
	"balance":         opBalance,
	"list_user_token": opListUserToken,
	"list_tokens":     opListTokens,
	"list_users":      opListUsers,
	"history":         opHistory,
}

// Run executes a scenario on a fresh in-memory backend.
func Run(scenario *Scenario) (*Result, error) {
	return RunOn(context.Background(), scenario, memstore.New())
}

// RunOn executes a scenario on p, which should be empty.
//
// Execution flow:
// 1. Execute setup steps (any failure aborts)
// 2. Execute flow steps, checking each expect clause
// 3. Evaluate assertions
// 4. Return result with pass/fail, trace, and errors
func RunOn(ctx context.Context, scenario *Scenario, p ledger.Persistence) (*Result, error) {
	refs := testutil.NewSequentialRefGenerator(scenario.RefPrefix)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in scenarios

	h := &Harness{
		engine: ledger.New(p, ledger.WithLogger(logger), ledger.WithRefGenerator(refs)),
		refs:   refs,
		logger: logger,
	}

	result := NewResult()
	if err := h.executeSetup(ctx, scenario.Setup, result); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	for _, msg := range EvaluateAssertions(ctx, h.engine, result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) executeSetup(ctx context.Context, setup []Step, result *Result) error {
	for i, step := range setup {
		out, err := h.execute(ctx, step, result)
		if err != nil {
			return fmt.Errorf("setup step %d: %w", i, err)
		}
		if out.err != nil {
			return fmt.Errorf("setup step %d: %s failed: %w", i, step.Invoke, out.err)
		}
	}
	return nil
}

func (h *Harness) executeFlow(ctx context.Context, flow []Step, result *Result) error {
	for i, step := range flow {
		out, err := h.execute(ctx, step, result)
		if err != nil {
			return fmt.Errorf("flow step %d: %w", i, err)
		}
		for _, msg := range checkExpect(step, out) {
			result.AddError(fmt.Sprintf("flow[%d] %s: %s", i, step.Invoke, msg))
		}
		h.logger.Debug("flow step completed", "step", i, "op", step.Invoke, "case", outcomeCase(out.err))
	}
	return nil
}

// execute runs step and records its invocation and completion.
func (h *Harness) execute(ctx context.Context, step Step, result *Result) (outcome, error) {
	op, ok := operations[step.Invoke]
	if !ok {
		return outcome{}, fmt.Errorf("unknown operation %q", step.Invoke)
	}
	result.addInvocation(step.Invoke, step.Args)

	out, err := op(ctx, h, step.Args)
	if err != nil {
		return outcome{}, err
	}
	if out.err != nil {
		out.result = nil
	}
	result.addCompletion(outcomeCase(out.err), out.result)
	return out, nil
}

func outcomeCase(err error) string {
	if err == nil {
		return CaseOK
	}
	if code := ledger.CodeOf(err); code != "" {
		return string(code)
	}
	return "ERROR"
}

func checkExpect(step Step, out outcome) []string {
	got, opErr := out.result, out.err
	wantCase := CaseOK
	if step.Expect != nil && step.Expect.Case != "" {
		wantCase = step.Expect.Case
	}
	gotCase := outcomeCase(opErr)
	if gotCase != wantCase {
		if opErr != nil {
			return []string{fmt.Sprintf("expected case %q, got %q (%v)", wantCase, gotCase, opErr)}
		}
		return []string{fmt.Sprintf("expected case %q, got %q", wantCase, gotCase)}
	}
	if step.Expect == nil || opErr != nil {
		return nil
	}

	var errs []string
	errs = append(errs, matchFields(step.Expect.Result, got)...)
	if step.Expect.Rows != nil {
		rows, _ := got["rows"].([]string)
		if !slices.Equal(rows, step.Expect.Rows) {
			errs = append(errs, fmt.Sprintf("rows: expected %v, got %v", step.Expect.Rows, rows))
		}
	}
	return errs
}

// matchFields is a subset match of want against got. Values compare by
// their printed form so YAML ints match int64 results.
func matchFields(want, got map[string]any) []string {
	var errs []string
	for k, w := range want {
		g, ok := got[k]
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: expected %v, field missing", k, w))
			continue
		}
		if fmt.Sprint(w) != fmt.Sprint(g) {
			errs = append(errs, fmt.Sprintf("%s: expected %v, got %v", k, w, g))
		}
	}
	slices.Sort(errs)
	return errs
}

func opCreateUser(ctx context.Context, h *Harness, args map[string]any) (outcome, error) {
	name, err := stringArg(args, "name")
	if err != nil {
		return outcome{}, err
	}
	u, opErr := h.engine.CreateUser(ctx, name)
	return outcome{map[string]any{"id": int64(u.ID)}, opErr}, nil
}

func opCreateToken(ctx context.Context, h *Harness, args map[string]any) (outcome, error) {
	name, err := stringArg(args, "name")
	if err != nil {
		return outcome{}, err
	}
	t, opErr := h.engine.CreateToken(ctx, name)
	return outcome{map[string]any{"id": int64(t.ID)}, opErr}, nil
}

func opTransfer(ctx context.Context, h *Harness, args map[string]any) (outcome, error) {
	strict, err := boolArg(args, "strict")
	if err != nil {
		return outcome{}, err
	}
	sender, err := userRef(args, "sender", !strict)
	if err != nil {
		return outcome{}, err
	}
	receiver, err := userRef(args, "receiver", !strict)
	if err != nil {
		return outcome{}, err
	}
	token, err := tokenRef(args, "token", !strict)
	if err != nil {
		return outcome{}, err
	}
	amount, err := intArg(args, "amount")
	if err != nil {
		return outcome{}, err
	}

	res, opErr := h.engine.Transfer(ctx, sender, receiver, token, amount)
	return outcome{map[string]any{
		"new_total":    res.NewTotal,
		"previous":     res.Previous,
		"had_previous": res.HadPrevious,
		"seq":          res.Record.Seq,
		"ref":          res.Record.Ref,
	}, opErr}, nil
}

func opBalance(ctx context.Context, h *Harness, args map[string]any) (outcome, error) {
	sender, receiver, token, err := tripleArgs(args)
	if err != nil {
		return outcome{}, err
	}
	total, ok, opErr := h.engine.CurrentTotal(ctx, sender, receiver, token)
	return outcome{map[string]any{"total": total, "present": ok}, opErr}, nil
}

func opListUserToken(ctx context.Context, h *Harness, args map[string]any) (outcome, error) {
	receiver, err := strictUserRef(args, "receiver")
	if err != nil {
		return outcome{}, err
	}
	token, err := strictTokenRef(args, "token")
	if err != nil {
		return outcome{}, err
	}
	order, by, opErr := parseListing(args, ledger.ParseUserTokenOrderBy)
	if opErr != nil {
		return outcome{err: opErr}, nil
	}
	rows, opErr := h.engine.ListUserToken(ctx, receiver, token, order, by)
	return outcome{map[string]any{"rows": testutil.SenderRows(rows)}, opErr}, nil
}

func opListTokens(ctx context.Context, h *Harness, args map[string]any) (outcome, error) {
	receiver, err := strictUserRef(args, "receiver")
	if err != nil {
		return outcome{}, err
	}
	order, by, opErr := parseListing(args, ledger.ParseTokensOrderBy)
	if opErr != nil {
		return outcome{err: opErr}, nil
	}
	rows, opErr := h.engine.ListTokensByUser(ctx, receiver, order, by)
	return outcome{map[string]any{"rows": testutil.TokenRows(rows)}, opErr}, nil
}

func opListUsers(ctx context.Context, h *Harness, args map[string]any) (outcome, error) {
	token, err := strictTokenRef(args, "token")
	if err != nil {
		return outcome{}, err
	}
	order, by, opErr := parseListing(args, ledger.ParseUsersOrderBy)
	if opErr != nil {
		return outcome{err: opErr}, nil
	}
	rows, opErr := h.engine.ListUsersByToken(ctx, token, order, by)
	return outcome{map[string]any{"rows": testutil.ReceiverRows(rows)}, opErr}, nil
}

func opHistory(ctx context.Context, h *Harness, args map[string]any) (outcome, error) {
	filter, err := historyFilter(args)
	if err != nil {
		return outcome{}, err
	}
	recs, opErr := h.engine.History(ctx, filter)
	return outcome{map[string]any{"rows": historyRows(recs)}, opErr}, nil
}

// historyRows renders records as "seq:sender->receiver/token:amount".
func historyRows(recs []ledger.TransactionRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = fmt.Sprintf("%d:%d->%d/%d:%d", r.Seq, r.Sender, r.Receiver, r.Token, r.Amount)
	}
	return out
}

func parseListing[T any](args map[string]any, parseBy func(string) (T, error)) (ledger.Order, T, error) {
	var zero T
	orderStr, err := optStringArg(args, "order")
	if err != nil {
		return 0, zero, ledger.InvalidInput("%v", err)
	}
	order, err := ledger.ParseOrder(orderStr)
	if err != nil {
		return 0, zero, err
	}
	byStr, err := optStringArg(args, "order_by")
	if err != nil {
		return 0, zero, ledger.InvalidInput("%v", err)
	}
	by, err := parseBy(byStr)
	if err != nil {
		return 0, zero, err
	}
	return order, by, nil
}
