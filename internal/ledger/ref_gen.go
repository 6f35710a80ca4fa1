package ledger

import "github.com/google/uuid"

// RefGenerator produces the correlation reference stamped on each
// transfer record.
type RefGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 references.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
// Panics if the system random source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
