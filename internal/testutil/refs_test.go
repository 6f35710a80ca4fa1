package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequentialRefGenerator_Sequence(t *testing.T) {
	gen := NewSequentialRefGenerator("tr")

	assert.Equal(t, "tr-000001", gen.Generate())
	assert.Equal(t, "tr-000002", gen.Generate())
	assert.Equal(t, "tr-000003", gen.Generate())
}

func TestSequentialRefGenerator_DefaultPrefix(t *testing.T) {
	gen := NewSequentialRefGenerator("")
	assert.Equal(t, "ref-000001", gen.Generate())
}

func TestSequentialRefGenerator_Reset(t *testing.T) {
	gen := NewSequentialRefGenerator("x")
	gen.Generate()
	gen.Generate()

	gen.Reset()
	assert.Equal(t, "x-000001", gen.Generate())
}

func TestSequentialRefGenerator_ConcurrentUnique(t *testing.T) {
	gen := NewSequentialRefGenerator("c")

	const goroutines = 50
	var wg sync.WaitGroup
	refs := make(chan string, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			refs <- gen.Generate()
		}()
	}
	wg.Wait()
	close(refs)

	seen := make(map[string]bool)
	for r := range refs {
		require.False(t, seen[r], "duplicate ref %s", r)
		seen[r] = true
	}
	assert.Len(t, seen, goroutines)
}
