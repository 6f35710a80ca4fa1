package cli

import (
	"strconv"

	"github.com/roach88/pointsx/internal/ledger"
)

// parseID parses a numeric user or token id.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, ledger.InvalidInput("invalid id %q (use --by-name to pass names)", arg)
	}
	return id, nil
}

func strictUserRef(arg string, byName bool) (ledger.StrictUserRef, error) {
	if byName {
		return ledger.UserByName(arg), nil
	}
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	return ledger.UserByID(id), nil
}

func strictTokenRef(arg string, byName bool) (ledger.StrictTokenRef, error) {
	if byName {
		return ledger.TokenByName(arg), nil
	}
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	return ledger.TokenByID(id), nil
}

// creatingUserRef resolves by name with creation on miss when byName is set.
func creatingUserRef(arg string, byName bool) (ledger.UserRef, error) {
	if byName {
		return ledger.UserByNameOrCreate(arg), nil
	}
	ref, err := strictUserRef(arg, false)
	if err != nil {
		return nil, err
	}
	return ref, nil
}

func creatingTokenRef(arg string, byName bool) (ledger.TokenRef, error) {
	if byName {
		return ledger.TokenByNameOrCreate(arg), nil
	}
	ref, err := strictTokenRef(arg, false)
	if err != nil {
		return nil, err
	}
	return ref, nil
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
