package harness

import (
	"fmt"

	"github.com/roach88/pointsx/internal/ledger"
)

// Argument conversion for YAML-decoded step args. yaml.v3 decodes integers
// as int, so ids and amounts arrive as int.

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("args.%s is required", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("args.%s: expected string, got %T", key, v)
	}
	return s, nil
}

func optStringArg(args map[string]any, key string) (string, error) {
	if _, ok := args[key]; !ok {
		return "", nil
	}
	return stringArg(args, key)
}

func boolArg(args map[string]any, key string) (bool, error) {
	v, ok := args[key]
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("args.%s: expected bool, got %T", key, v)
	}
	return b, nil
}

func intArg(args map[string]any, key string) (int64, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("args.%s is required", key)
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, fmt.Errorf("args.%s: expected integer, got %T", key, v)
	}
	return n, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}

// userRef converts args[key] to a reference: integers are ids, strings are
// names, created on miss when create is set.
func userRef(args map[string]any, key string, create bool) (ledger.UserRef, error) {
	if s, ok := args[key].(string); ok && create {
		return ledger.UserByNameOrCreate(s), nil
	}
	return strictUserRef(args, key)
}

func strictUserRef(args map[string]any, key string) (ledger.StrictUserRef, error) {
	v, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("args.%s is required", key)
	}
	if s, ok := v.(string); ok {
		return ledger.UserByName(s), nil
	}
	if n, ok := toInt64(v); ok {
		return ledger.UserByID(n), nil
	}
	return nil, fmt.Errorf("args.%s: expected id or name, got %T", key, v)
}

func tokenRef(args map[string]any, key string, create bool) (ledger.TokenRef, error) {
	if s, ok := args[key].(string); ok && create {
		return ledger.TokenByNameOrCreate(s), nil
	}
	return strictTokenRef(args, key)
}

func strictTokenRef(args map[string]any, key string) (ledger.StrictTokenRef, error) {
	v, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("args.%s is required", key)
	}
	if s, ok := v.(string); ok {
		return ledger.TokenByName(s), nil
	}
	if n, ok := toInt64(v); ok {
		return ledger.TokenByID(n), nil
	}
	return nil, fmt.Errorf("args.%s: expected id or name, got %T", key, v)
}

func tripleArgs(args map[string]any) (ledger.StrictUserRef, ledger.StrictUserRef, ledger.StrictTokenRef, error) {
	sender, err := strictUserRef(args, "sender")
	if err != nil {
		return nil, nil, nil, err
	}
	receiver, err := strictUserRef(args, "receiver")
	if err != nil {
		return nil, nil, nil, err
	}
	token, err := strictTokenRef(args, "token")
	if err != nil {
		return nil, nil, nil, err
	}
	return sender, receiver, token, nil
}

// historyFilter builds a filter from optional integer ids and limit.
func historyFilter(args map[string]any) (ledger.HistoryFilter, error) {
	var f ledger.HistoryFilter
	for _, key := range []string{"sender", "receiver", "token", "limit"} {
		v, ok := args[key]
		if !ok {
			continue
		}
		n, ok := toInt64(v)
		if !ok {
			return f, fmt.Errorf("args.%s: expected integer, got %T", key, v)
		}
		switch key {
		case "sender":
			id := ledger.UserID(n)
			f.Sender = &id
		case "receiver":
			id := ledger.UserID(n)
			f.Receiver = &id
		case "token":
			id := ledger.TokenID(n)
			f.Token = &id
		case "limit":
			f.Limit = int(n)
		}
	}
	return f, nil
}
