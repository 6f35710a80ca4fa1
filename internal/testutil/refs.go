package testutil

import (
	"fmt"
	"sync"
)

// SequentialRefGenerator returns "<prefix>-000001", "<prefix>-000002", ...
//
// This makes transfer references deterministic so golden snapshots and
// history listings compare byte-for-byte across runs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialRefGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialRefGenerator creates a generator. An empty prefix means "ref".
func NewSequentialRefGenerator(prefix string) *SequentialRefGenerator {
	if prefix == "" {
		prefix = "ref"
	}
	return &SequentialRefGenerator{prefix: prefix}
}

// Generate returns the next reference. Implements ledger.RefGenerator.
func (g *SequentialRefGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%06d", g.prefix, g.n)
}

// Reset restarts the sequence at 1.
func (g *SequentialRefGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
