package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFeature = `Feature: Sample
  Scenario: One
    Given a step
`

func TestLoadTextStoresAndPreservesOrder(t *testing.T) {
	c := New()

	assert.Empty(t, c.LoadText("b.feature", validFeature))
	assert.Empty(t, c.LoadText("a.feature", validFeature))

	entries := c.Features()

	require.Len(t, entries, 2)
	assert.Equal(t, "b.feature", entries[0].URI)
	assert.Equal(t, "a.feature", entries[1].URI)
}

func TestLoadTextOverwritesSameURI(t *testing.T) {
	c := New()

	c.LoadText("a.feature", validFeature)
	c.LoadText("a.feature", "Feature: Replaced\n")

	doc, ok := c.Get("a.feature")
	require.True(t, ok)
	assert.Equal(t, "Replaced", doc.Feature.Name)
	assert.Equal(t, 1, c.Size())
}

func TestLoadTextParseError(t *testing.T) {
	c := New()

	errs := c.LoadText("bad.feature", "not a gherkin document{{{")

	require.NotEmpty(t, errs)
	assert.Equal(t, "bad.feature", errs[0].URI)
	assert.False(t, c.Contains("bad.feature"))
}

func TestLoadFileIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "math.feature")
	require.NoError(t, os.WriteFile(path, []byte(validFeature), 0o644))

	c := New()

	assert.Empty(t, c.LoadFile(path))
	assert.Empty(t, c.LoadFile(path))
	assert.Equal(t, 1, c.Size())
}

func TestLoadFileMissing(t *testing.T) {
	c := New()

	errs := c.LoadFile("/nonexistent/path.feature")
	require.NotEmpty(t, errs)
}

func TestSourceReturnsOriginalText(t *testing.T) {
	c := New()
	c.LoadText("a.feature", validFeature)

	src, ok := c.Source("a.feature")
	require.True(t, ok)
	assert.Equal(t, validFeature, src)
}

func TestLoadFromSourceDispatch(t *testing.T) {
	c := New()

	errs := c.LoadFromSource(NewTextSource("a.feature", validFeature))
	assert.Empty(t, errs)
	assert.True(t, c.Contains("a.feature"))
}
