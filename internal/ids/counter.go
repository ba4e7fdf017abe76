// Package ids mints the run-scoped, prefixed identifiers used for pickles,
// steps, registry entries, and envelopes.
package ids

import (
	"strconv"
	"sync"
)

// Counter is a monotonic, prefix-aware ID generator. Safe for concurrent
// use: the parallel executor mints envelope and test-case IDs from worker
// goroutines.
type Counter struct {
	mu   sync.Mutex
	next map[string]int
}

// NewCounter returns a fresh counter, starting every prefix at 0.
func NewCounter() *Counter {
	return &Counter{next: map[string]int{}}
}

// Next returns the next id for prefix, formatted as "<prefix>-<n>".
func (c *Counter) Next(prefix string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.next[prefix]
	c.next[prefix] = n + 1

	return prefix + "-" + strconv.Itoa(n)
}
