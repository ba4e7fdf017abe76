// Package cache owns parsed Gherkin features keyed by URI, the way the
// teacher's executeFeature/runFeature pair loads and iterates features,
// generalized into the spec's FeatureCache (spec §4.1).
package cache

import (
	"bytes"
	"os"
	"strings"
	"sync"

	msgs "github.com/cucumber/messages-go/v12"

	"github.com/moonrockz/moonspec/internal/gherkin"
)

// ParseErrorInfo is returned instead of raising when a load fails; the
// cache is never mutated by a failed load.
type ParseErrorInfo struct {
	URI     string
	Message string
	Line    *int32
}

// SourceKind discriminates a FeatureSource variant.
type SourceKind int

const (
	SourceText SourceKind = iota
	SourceFile
	SourceParsed
)

// FeatureSource is the discriminated union accepted by LoadFromSource and
// by the public Options.Features list (spec §6.3).
type FeatureSource struct {
	Kind     SourceKind
	URI      string
	Content  string
	Path     string
	Document *msgs.GherkinDocument
}

func NewTextSource(uri, content string) FeatureSource {
	return FeatureSource{Kind: SourceText, URI: uri, Content: content}
}

func NewFileSource(path string) FeatureSource {
	return FeatureSource{Kind: SourceFile, Path: path}
}

func NewParsedSource(uri string, doc *msgs.GherkinDocument) FeatureSource {
	return FeatureSource{Kind: SourceParsed, URI: uri, Document: doc}
}

// FeatureEntry pairs a URI with its cached document, in first-insertion
// order when returned from Features().
type FeatureEntry struct {
	URI      string
	Document *msgs.GherkinDocument
}

// Cache is safe for concurrent reads; loads are expected to happen before
// a run starts executing pickles concurrently.
type Cache struct {
	mu      sync.Mutex
	order   []string
	docs    map[string]*msgs.GherkinDocument
	sources map[string]string
}

func New() *Cache {
	return &Cache{
		docs:    map[string]*msgs.GherkinDocument{},
		sources: map[string]string{},
	}
}

// LoadText parses text and stores it under uri, overwriting any existing
// entry for that URI.
func (c *Cache) LoadText(uri, text string) []ParseErrorInfo {
	doc, err := gherkin.Parse(strings.NewReader(text))
	if err != nil {
		return []ParseErrorInfo{{URI: uri, Message: err.Error()}}
	}

	c.store(uri, doc, text)

	return nil
}

// LoadFile reads and parses path, keyed by the path itself. Idempotent: a
// second load of an already-cached path is a no-op.
func (c *Cache) LoadFile(path string) []ParseErrorInfo {
	if c.Contains(path) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return []ParseErrorInfo{{URI: path, Message: err.Error()}}
	}

	doc, err := gherkin.Parse(bytes.NewReader(data))
	if err != nil {
		return []ParseErrorInfo{{URI: path, Message: err.Error()}}
	}

	c.store(path, doc, string(data))

	return nil
}

// LoadParsed stores a pre-parsed document directly; it never fails and
// always overwrites any existing entry for uri.
func (c *Cache) LoadParsed(uri string, doc *msgs.GherkinDocument) {
	c.store(uri, doc, "")
}

// LoadFromSource dispatches on src.Kind.
func (c *Cache) LoadFromSource(src FeatureSource) []ParseErrorInfo {
	switch src.Kind {
	case SourceText:
		return c.LoadText(src.URI, src.Content)
	case SourceFile:
		return c.LoadFile(src.Path)
	case SourceParsed:
		c.LoadParsed(src.URI, src.Document)
		return nil
	default:
		return []ParseErrorInfo{{URI: src.URI, Message: "unknown feature source kind"}}
	}
}

func (c *Cache) store(uri string, doc *msgs.GherkinDocument, source string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[uri]; !exists {
		c.order = append(c.order, uri)
	}

	c.docs[uri] = doc
	c.sources[uri] = source
}

// Features returns every cached (uri, document) pair in first-insertion
// order. The returned slice is a fresh snapshot; callers may iterate it
// any number of times.
func (c *Cache) Features() []FeatureEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]FeatureEntry, 0, len(c.order))
	for _, uri := range c.order {
		out = append(out, FeatureEntry{URI: uri, Document: c.docs[uri]})
	}

	return out
}

func (c *Cache) Get(uri string) (*msgs.GherkinDocument, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[uri]

	return doc, ok
}

// Source returns the raw text behind uri, when known (LoadParsed entries
// have no recoverable source text).
func (c *Cache) Source(uri string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, ok := c.sources[uri]

	return src, ok
}

func (c *Cache) Contains(uri string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.docs[uri]

	return ok
}

func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.docs)
}
