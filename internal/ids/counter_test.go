package ids

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterNextIsMonotonic(t *testing.T) {
	c := NewCounter()

	assert.Equal(t, "pickle-0", c.Next("pickle"))
	assert.Equal(t, "pickle-1", c.Next("pickle"))
	assert.Equal(t, "pickle-2", c.Next("pickle"))
}

func TestCounterPrefixesAreIndependent(t *testing.T) {
	c := NewCounter()

	assert.Equal(t, "step-0", c.Next("step"))
	assert.Equal(t, "hook-0", c.Next("hook"))
	assert.Equal(t, "step-1", c.Next("step"))
}

func TestCounterConcurrentUseNeverDuplicates(t *testing.T) {
	c := NewCounter()

	const n = 200

	seen := make(chan string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			seen <- c.Next("tstep")
		}()
	}

	wg.Wait()
	close(seen)

	unique := map[string]bool{}
	for id := range seen {
		unique[id] = true
	}

	assert.Len(t, unique, n)
}
