// Package gherkin wraps the cucumber/gherkin-go parser the way the teacher
// repo's executeFeature does, so the rest of moonspec never imports the
// parser directly.
package gherkin

import (
	"io"

	gherkin "github.com/cucumber/gherkin-go/v13"
	msgs "github.com/cucumber/messages-go/v12"
)

// Parse reads a full Gherkin document from r and returns its parsed AST.
// IDs minted during parsing use the standard incrementing generator;
// moonspec's own run-scoped ID counter (internal/ids) is independent of
// these and used only for pickles, steps, and envelopes.
func Parse(r io.Reader) (*msgs.GherkinDocument, error) {
	idGen := &msgs.Incrementing{}
	return gherkin.ParseGherkinDocument(r, idGen.NewId)
}
