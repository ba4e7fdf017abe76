package emitter

import (
	"sync"

	"github.com/moonrockz/moonspec/internal/ids"
)

// Sink receives every envelope, in order, for one run. Implementations
// must not retain mutable references into the envelope (spec §4.6).
type Sink interface {
	OnMessage(env Envelope)
}

// Emitter fans an ordered envelope stream out to every attached sink and
// mints envelope IDs from a shared run-scoped counter.
type Emitter struct {
	ids   *ids.Counter
	sinks []Sink

	// groupMu serializes a single pickle's TestCaseStarted..Finished
	// envelope group in parallel mode (spec §4.7 concurrency model): the
	// executor holds it for the group's duration so concurrent pickles
	// never interleave their internal envelopes.
	groupMu sync.Mutex
}

func New(counter *ids.Counter, sinks []Sink) *Emitter {
	return &Emitter{ids: counter, sinks: sinks}
}

func (e *Emitter) Emit(env Envelope) {
	for _, s := range e.sinks {
		s.OnMessage(env)
	}
}

func (e *Emitter) NextID(prefix string) string {
	return e.ids.Next(prefix)
}

// LockGroup/UnlockGroup bracket one pickle attempt's full envelope group.
func (e *Emitter) LockGroup()   { e.groupMu.Lock() }
func (e *Emitter) UnlockGroup() { e.groupMu.Unlock() }
