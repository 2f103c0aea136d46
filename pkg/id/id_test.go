package id

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	a := New()
	b := New()
	require.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	// Monotonic within a process: later IDs sort after earlier ones.
	assert.Less(t, a, b)
}

func TestNew_Concurrent(t *testing.T) {
	t.Parallel()

	const n = 200
	ids := make([]string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = New()
		}(i)
	}
	wg.Wait()

	sort.Strings(ids)
	for i := 1; i < n; i++ {
		assert.NotEqual(t, ids[i-1], ids[i])
	}
}
