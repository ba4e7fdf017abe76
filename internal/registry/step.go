// Package registry holds the per-attempt StepRegistry and HookRegistry
// populated by World.configure (spec §4.4), plus the Undefined-step
// diagnostic (snippet + edit-distance suggestions).
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/moonrockz/moonspec/internal/cucumberexpr"
	"github.com/moonrockz/moonspec/internal/ids"
	"github.com/moonrockz/moonspec/internal/levenshtein"
	"github.com/moonrockz/moonspec/value"
)

// Category is the keyword a step definition was registered under.
// Matching itself ignores category — spec §4.4 detects no ambiguity and
// always takes the first textual match — category is kept only for
// envelope emission. Undefined-step snippets derive their method name
// from the step's own keyword, not from any category.
type Category int

const (
	CategoryGiven Category = iota
	CategoryWhen
	CategoryThen
	CategoryStep
)

func (c Category) String() string {
	switch c {
	case CategoryGiven:
		return "Given"
	case CategoryWhen:
		return "When"
	case CategoryThen:
		return "Then"
	default:
		return "Step"
	}
}

// StepDefinition is a registered match rule.
type StepDefinition struct {
	ID       string
	Category Category
	Pattern  string
	Expr     *cucumberexpr.Expression
	Handler  any
	Source   string
}

// UndefinedInfo is returned by FindMatch when no registered step matches.
type UndefinedInfo struct {
	StepText    string
	Keyword     string
	Snippet     string
	Suggestions []string
}

// MatchResult is the outcome of FindMatch: either a matched definition
// with its typed arguments, or an Undefined diagnostic.
type MatchResult struct {
	Matched   bool
	Def       *StepDefinition
	Args      []value.Arg
	Undefined *UndefinedInfo
}

// StepRegistry holds step definitions in registration order — the order
// in which FindMatch attempts them.
type StepRegistry struct {
	ids        *ids.Counter
	paramTypes *cucumberexpr.ParamTypeRegistry

	mu      sync.Mutex
	entries []*StepDefinition
}

func NewStepRegistry(counter *ids.Counter, paramTypes *cucumberexpr.ParamTypeRegistry) *StepRegistry {
	return &StepRegistry{ids: counter, paramTypes: paramTypes}
}

// Register compiles pattern as a Cucumber Expression and appends a new
// StepDefinition.
func (r *StepRegistry) Register(category Category, pattern string, handler any, source string) (*StepDefinition, error) {
	expr, err := cucumberexpr.Compile(pattern, r.paramTypes)
	if err != nil {
		return nil, err
	}

	def := &StepDefinition{
		ID:       r.ids.Next("sd"),
		Category: category,
		Pattern:  pattern,
		Expr:     expr,
		Handler:  handler,
		Source:   source,
	}

	r.mu.Lock()
	r.entries = append(r.entries, def)
	r.mu.Unlock()

	return def, nil
}

// Entries returns a snapshot of every registered step definition, in
// registration order.
func (r *StepRegistry) Entries() []*StepDefinition {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*StepDefinition, len(r.entries))
	copy(out, r.entries)

	return out
}

// FindMatch attempts every entry in registration order; the first
// matching expression wins.
func (r *StepRegistry) FindMatch(text, keyword string) MatchResult {
	entries := r.Entries()

	for _, def := range entries {
		if args, ok := def.Expr.Match(text); ok {
			return MatchResult{Matched: true, Def: def, Args: args}
		}
	}

	patterns := make([]string, len(entries))
	for i, d := range entries {
		patterns[i] = d.Pattern
	}

	return MatchResult{
		Matched: false,
		Undefined: &UndefinedInfo{
			StepText:    text,
			Keyword:     keyword,
			Snippet:     snippet(keyword, text),
			Suggestions: levenshtein.TopK(text, patterns, 3),
		},
	}
}

func snippet(keyword, text string) string {
	method := strings.Title(strings.ToLower(strings.TrimSpace(keyword))) //nolint:staticcheck
	if method != "Given" && method != "When" && method != "Then" {
		method = "Step"
	}

	escaped := strings.NewReplacer(`\`, `\\`, `{`, `\{`, `}`, `\}`, `(`, `\(`, `)`, `\)`, `/`, `\/`).Replace(text)

	return fmt.Sprintf(
		"setup.%s(`%s`, func(t moonspec.StepTest, ctx *moonspec.Ctx) error {\n\tt.Skip(\"pending\")\n\treturn nil\n})",
		method, escaped,
	)
}
