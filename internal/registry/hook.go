package registry

import (
	"sync"

	"github.com/moonrockz/moonspec/internal/ids"
)

// HookType distinguishes the six lifecycle hook shapes (spec §3.1, §4.4).
type HookType int

const (
	BeforeTestRun HookType = iota
	AfterTestRun
	BeforeTestCase
	AfterTestCase
	BeforeTestStep
	AfterTestStep
)

func (t HookType) String() string {
	switch t {
	case BeforeTestRun:
		return "BeforeTestRun"
	case AfterTestRun:
		return "AfterTestRun"
	case BeforeTestCase:
		return "BeforeTestCase"
	case AfterTestCase:
		return "AfterTestCase"
	case BeforeTestStep:
		return "BeforeTestStep"
	case AfterTestStep:
		return "AfterTestStep"
	default:
		return "Unknown"
	}
}

// Hook is a registered lifecycle callback.
type Hook struct {
	ID      string
	Type    HookType
	Handler any
	Source  string
}

// HookRegistry holds hooks in registration order.
type HookRegistry struct {
	ids *ids.Counter

	mu    sync.Mutex
	hooks []*Hook
}

func NewHookRegistry(counter *ids.Counter) *HookRegistry {
	return &HookRegistry{ids: counter}
}

func (r *HookRegistry) Register(t HookType, handler any, source string) *Hook {
	h := &Hook{ID: r.ids.Next("hook"), Type: t, Handler: handler, Source: source}

	r.mu.Lock()
	r.hooks = append(r.hooks, h)
	r.mu.Unlock()

	return h
}

// ByType returns hooks of type t in registration order.
func (r *HookRegistry) ByType(t HookType) []*Hook {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Hook

	for _, h := range r.hooks {
		if h.Type == t {
			out = append(out, h)
		}
	}

	return out
}

// All returns every registered hook in registration order.
func (r *HookRegistry) All() []*Hook {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Hook, len(r.hooks))
	copy(out, r.hooks)

	return out
}
