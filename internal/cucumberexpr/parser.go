// Package cucumberexpr compiles Cucumber Expressions ("I have {int}
// cucumbers") into a regular expression plus an ordered list of parameter
// transformers, per spec §4.3.
package cucumberexpr

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/moonrockz/moonspec/value"
)

// Expression is a compiled Cucumber Expression.
type Expression struct {
	Source string
	regexp *regexp.Regexp
	params []*paramMatch
}

type paramMatch struct {
	entry      *ParamTypeEntry
	groupCount int
}

// Compile parses and compiles an expression against registry, resolving
// every {name} reference to a registered ParamTypeEntry.
func Compile(source string, registry *ParamTypeRegistry) (*Expression, error) {
	p := &exprParser{runes: []rune(source)}

	nodes, err := p.parseSequence(0)
	if err != nil {
		return nil, fmt.Errorf("cucumber expression %q: %w", source, err)
	}

	var params []*paramMatch

	body, err := buildSequence(nodes, registry, &params)
	if err != nil {
		return nil, fmt.Errorf("cucumber expression %q: %w", source, err)
	}

	re, err := regexp.Compile("^" + body + "$")
	if err != nil {
		return nil, fmt.Errorf("cucumber expression %q compiled to invalid regexp: %w", source, err)
	}

	return &Expression{Source: source, regexp: re, params: params}, nil
}

// Match attempts to match text. On success it returns the typed arguments
// in left-to-right order.
func (e *Expression) Match(text string) ([]value.Arg, bool) {
	m := e.regexp.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	args := make([]value.Arg, 0, len(e.params))
	idx := 1

	for _, p := range e.params {
		raw := m[idx]
		idx += p.groupCount

		v, err := p.entry.Transformer(raw)
		if err != nil {
			v = value.String(raw)
		}

		args = append(args, value.Arg{Value: v, Raw: raw})
	}

	return args, true
}

// node is one element of a parsed expression: literal text, a parameter
// reference, an optional fragment, or a word-level alternation.
type node interface {
	build(reg *ParamTypeRegistry, params *[]*paramMatch) (string, error)
}

type litNode string

func (n litNode) build(*ParamTypeRegistry, *[]*paramMatch) (string, error) {
	return regexp.QuoteMeta(string(n)), nil
}

type paramNode struct{ name string }

func (n paramNode) build(reg *ParamTypeRegistry, params *[]*paramMatch) (string, error) {
	entry, ok := reg.Get(n.name)
	if !ok {
		return "", fmt.Errorf("undefined parameter type {%s}", n.name)
	}

	pattern := strings.Join(entry.Patterns, "|")

	groups := 1
	if inner, err := regexp.Compile(pattern); err == nil {
		groups += inner.NumSubexp()
	}

	*params = append(*params, &paramMatch{entry: entry, groupCount: groups})

	return "(" + pattern + ")", nil
}

type optionalNode struct{ children []node }

func (n optionalNode) build(reg *ParamTypeRegistry, params *[]*paramMatch) (string, error) {
	inner, err := buildSequence(n.children, reg, params)
	if err != nil {
		return "", err
	}

	return "(?:" + inner + ")?", nil
}

type altNode struct{ options [][]node }

func (n altNode) build(reg *ParamTypeRegistry, params *[]*paramMatch) (string, error) {
	parts := make([]string, 0, len(n.options))

	for _, opt := range n.options {
		s, err := buildSequence(opt, reg, params)
		if err != nil {
			return "", err
		}

		parts = append(parts, s)
	}

	return "(?:" + strings.Join(parts, "|") + ")", nil
}

func buildSequence(nodes []node, reg *ParamTypeRegistry, params *[]*paramMatch) (string, error) {
	var sb strings.Builder

	for _, n := range nodes {
		s, err := n.build(reg, params)
		if err != nil {
			return "", err
		}

		sb.WriteString(s)
	}

	return sb.String(), nil
}

// litChar is one rune of pending literal text plus whether it arrived via
// a backslash escape, which matters for deciding whether '/' and
// whitespace act as alternation/word separators.
type litChar struct {
	r       rune
	escaped bool
}

type exprParser struct {
	runes []rune
	pos   int
}

// parseSequence reads nodes until it sees an unescaped stop rune (0 means
// read to end of input).
func (p *exprParser) parseSequence(stop rune) ([]node, error) {
	var nodes []node

	var lit []litChar

	flush := func() {
		nodes = append(nodes, flushLiteral(lit)...)
		lit = nil
	}

	for p.pos < len(p.runes) {
		c := p.runes[p.pos]

		if stop != 0 && c == stop {
			flush()
			return nodes, nil
		}

		switch c {
		case '\\':
			p.pos++
			if p.pos >= len(p.runes) {
				return nil, fmt.Errorf("dangling escape at end of expression")
			}

			lit = append(lit, litChar{r: p.runes[p.pos], escaped: true})
			p.pos++
		case '{':
			flush()
			p.pos++
			start := p.pos

			for p.pos < len(p.runes) && p.runes[p.pos] != '}' {
				p.pos++
			}

			if p.pos >= len(p.runes) {
				return nil, fmt.Errorf("unterminated parameter, missing '}'")
			}

			nodes = append(nodes, paramNode{name: string(p.runes[start:p.pos])})
			p.pos++
		case '(':
			flush()
			p.pos++

			inner, err := p.parseSequence(')')
			if err != nil {
				return nil, err
			}

			if p.pos >= len(p.runes) || p.runes[p.pos] != ')' {
				return nil, fmt.Errorf("unbalanced '(' - missing ')'")
			}

			p.pos++
			nodes = append(nodes, optionalNode{children: inner})
		case ')':
			return nil, fmt.Errorf("unexpected ')'")
		case '}':
			return nil, fmt.Errorf("unexpected '}'")
		default:
			lit = append(lit, litChar{r: c})
			p.pos++
		}
	}

	if stop != 0 {
		return nil, fmt.Errorf("expected closing %q but reached end of expression", stop)
	}

	flush()

	return nodes, nil
}

// flushLiteral splits a run of literal characters into whitespace and
// word segments, expanding any word containing an unescaped '/' into a
// word-level alternation.
func flushLiteral(buf []litChar) []node {
	if len(buf) == 0 {
		return nil
	}

	var nodes []node

	i := 0
	for i < len(buf) {
		if unicode.IsSpace(buf[i].r) && !buf[i].escaped {
			j := i
			for j < len(buf) && unicode.IsSpace(buf[j].r) && !buf[j].escaped {
				j++
			}

			nodes = append(nodes, litNode(runesOf(buf[i:j])))
			i = j

			continue
		}

		j := i
		for j < len(buf) && !(unicode.IsSpace(buf[j].r) && !buf[j].escaped) {
			j++
		}

		word := buf[i:j]
		nodes = append(nodes, wordNode(word))
		i = j
	}

	return nodes
}

func wordNode(word []litChar) node {
	var parts [][]litChar

	start := 0
	hasSlash := false

	for k, c := range word {
		if c.r == '/' && !c.escaped {
			hasSlash = true

			parts = append(parts, word[start:k])
			start = k + 1
		}
	}

	if !hasSlash {
		return litNode(runesOf(word))
	}

	parts = append(parts, word[start:])

	options := make([][]node, 0, len(parts))
	for _, part := range parts {
		options = append(options, []node{litNode(runesOf(part))})
	}

	return altNode{options: options}
}

func runesOf(chars []litChar) string {
	rs := make([]rune, len(chars))
	for i, c := range chars {
		rs[i] = c.r
	}

	return string(rs)
}
