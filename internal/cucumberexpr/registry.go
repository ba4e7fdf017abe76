package cucumberexpr

import (
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/moonrockz/moonspec/value"
)

// ParamKind names a well-known built-in parameter type, or Custom for
// anything registered by user configuration.
type ParamKind int

const (
	KindCustom ParamKind = iota
	KindInt
	KindLong
	KindByte
	KindShort
	KindBigInteger
	KindFloat
	KindDouble
	KindBigDecimal
	KindString
	KindWord
	KindAnonymous
)

// Transformer converts the raw captured text for a parameter into a typed
// StepValue. Built-ins fail only when the captured text does not parse into
// their type (for example a number out of range for {byte} or {short});
// whenever any transformer fails, the expression falls back to boxing the
// raw text as a string (spec §4.3).
type Transformer func(raw string) (value.StepValue, error)

// ParamTypeEntry is a registered parameter type: one or more regex
// sub-patterns joined at match time, and the transformer that converts a
// match into a StepValue.
type ParamTypeEntry struct {
	Name        string
	Kind        ParamKind
	Patterns    []string
	Transformer Transformer
}

// ParamTypeRegistry holds parameter types in registration order; entries
// are immutable once returned from Entries().
type ParamTypeRegistry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*ParamTypeEntry
}

func NewParamTypeRegistry() *ParamTypeRegistry {
	return &ParamTypeRegistry{entries: map[string]*ParamTypeEntry{}}
}

// Register adds or replaces a parameter type. A nil transformer gets the
// default: box the first capture group as an opaque string value.
func (r *ParamTypeRegistry) Register(name string, kind ParamKind, patterns []string, transformer Transformer) {
	if transformer == nil {
		transformer = func(raw string) (value.StepValue, error) {
			return value.Custom(name, raw), nil
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}

	r.entries[name] = &ParamTypeEntry{Name: name, Kind: kind, Patterns: patterns, Transformer: transformer}
}

func (r *ParamTypeRegistry) Get(name string) (*ParamTypeEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]

	return e, ok
}

// Entries returns custom (non-built-in) parameter types in registration
// order, for ParameterType envelope emission (built-ins are omitted per
// spec §4.6 step 5).
func (r *ParamTypeRegistry) Entries() []*ParamTypeEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ParamTypeEntry, 0, len(r.order))

	for _, name := range r.order {
		e := r.entries[name]
		if e.Kind == KindCustom {
			out = append(out, e)
		}
	}

	return out
}

// NewDefaultParamTypeRegistry returns a registry pre-populated with the
// built-in parameter types from spec §4.3.
func NewDefaultParamTypeRegistry() *ParamTypeRegistry {
	r := NewParamTypeRegistry()

	numberPattern := `[-+]?\d+`
	decimalPattern := `[-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?|[-+]?\.\d+(?:[eE][-+]?\d+)?`

	r.Register("int", KindInt, []string{numberPattern}, func(raw string) (value.StepValue, error) {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return value.StepValue{}, err
		}
		return value.Int(v), nil
	})

	r.Register("long", KindLong, []string{numberPattern}, func(raw string) (value.StepValue, error) {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return value.StepValue{}, err
		}
		return value.Long(v), nil
	})

	r.Register("byte", KindByte, []string{numberPattern}, func(raw string) (value.StepValue, error) {
		v, err := strconv.ParseInt(raw, 10, 8)
		if err != nil {
			return value.StepValue{}, err
		}
		return value.Byte(byte(v)), nil
	})

	r.Register("short", KindShort, []string{numberPattern}, func(raw string) (value.StepValue, error) {
		v, err := strconv.ParseInt(raw, 10, 16)
		if err != nil {
			return value.StepValue{}, err
		}
		return value.Short(int16(v)), nil
	})

	r.Register("biginteger", KindBigInteger, []string{numberPattern}, func(raw string) (value.StepValue, error) {
		v, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return value.StepValue{}, strconvErr("biginteger", raw)
		}
		return value.BigInteger(v), nil
	})

	r.Register("float", KindFloat, []string{decimalPattern}, func(raw string) (value.StepValue, error) {
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return value.StepValue{}, err
		}
		return value.Float(float32(v)), nil
	})

	r.Register("double", KindDouble, []string{decimalPattern}, func(raw string) (value.StepValue, error) {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return value.StepValue{}, err
		}
		return value.Double(v), nil
	})

	r.Register("bigdecimal", KindBigDecimal, []string{decimalPattern}, func(raw string) (value.StepValue, error) {
		v, ok := new(big.Float).SetString(raw)
		if !ok {
			return value.StepValue{}, strconvErr("bigdecimal", raw)
		}
		return value.BigDecimal(v), nil
	})

	r.Register("string", KindString, []string{`"(?:[^"\\]|\\.)*"`, `'(?:[^'\\]|\\.)*'`}, func(raw string) (value.StepValue, error) {
		return value.String(unquote(raw)), nil
	})

	r.Register("word", KindWord, []string{`\S+`}, func(raw string) (value.StepValue, error) {
		return value.String(raw), nil
	})

	r.Register("", KindAnonymous, []string{`.*`}, func(raw string) (value.StepValue, error) {
		return value.String(raw), nil
	})

	return r
}

func unquote(raw string) string {
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			raw = raw[1 : len(raw)-1]
		}
	}

	return strings.NewReplacer(`\"`, `"`, `\'`, `'`, `\\`, `\`).Replace(raw)
}

type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }

func strconvErr(kind, raw string) error {
	return &parseError{msg: "cannot parse \"" + raw + "\" as " + kind}
}
