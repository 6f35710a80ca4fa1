package ledger

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims surrounding whitespace and applies Unicode NFC so
// names that render identically compare equal in storage.
// An empty result is an invalid-input error.
func NormalizeName(name string) (string, error) {
	n := norm.NFC.String(strings.TrimSpace(name))
	if n == "" {
		return "", InvalidInput("name must not be empty")
	}
	return n, nil
}
