package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonrockz/moonspec/internal/cache"
	"github.com/moonrockz/moonspec/internal/ids"
	"github.com/moonrockz/moonspec/internal/model"
)

func compileText(t *testing.T, uri, text string) []model.Pickle {
	t.Helper()

	c := cache.New()
	if errs := c.LoadText(uri, text); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %+v", errs)
	}

	comp := New(ids.NewCounter())

	return comp.CompileAll(c.Features())
}

func TestCompileSimpleScenario(t *testing.T) {
	pickles := compileText(t, "simple.feature", `Feature: Simple
  Scenario: One
    Given a precondition
    When an action happens
    Then an outcome is observed
`)

	require.Len(t, pickles, 1)

	p := pickles[0]
	assert.Equal(t, "One", p.Name)
	require.Len(t, p.Steps, 3)
	assert.Equal(t, model.StepContext, p.Steps[0].Type)
	assert.Equal(t, model.StepAction, p.Steps[1].Type)
	assert.Equal(t, model.StepOutcome, p.Steps[2].Type)
}

func TestCompileConjunctionInheritsPreviousType(t *testing.T) {
	pickles := compileText(t, "conj.feature", `Feature: Conjunctions
  Scenario: One
    Given a precondition
    And another precondition
    When an action happens
    But a side effect occurs
    Then an outcome is observed
`)

	require.Len(t, pickles, 1)

	steps := pickles[0].Steps
	require.Len(t, steps, 5)
	assert.Equal(t, model.StepContext, steps[1].Type, "And inherits the Given before it")
	assert.Equal(t, model.StepAction, steps[3].Type, "But inherits the When before it")
}

func TestCompileBackgroundPrependsSteps(t *testing.T) {
	pickles := compileText(t, "bg.feature", `Feature: Background
  Background:
    Given a shared precondition

  Scenario: One
    When an action happens

  Scenario: Two
    When another action happens
`)

	require.Len(t, pickles, 2)

	for _, p := range pickles {
		require.Len(t, p.Steps, 2)
		assert.Equal(t, "a shared precondition", p.Steps[0].Text)
	}
}

func TestCompileScenarioOutlineExpandsExamples(t *testing.T) {
	pickles := compileText(t, "outline.feature", `Feature: Outline
  Scenario Outline: Addition
    Given I have <a> cucumbers
    When I eat <b> cucumbers
    Then I should have <c> cucumbers

    Examples:
      | a | b | c |
      | 5 | 3 | 2 |
      | 8 | 1 | 7 |
`)

	require.Len(t, pickles, 2)

	assert.Equal(t, "I have 5 cucumbers", pickles[0].Steps[0].Text)
	assert.Equal(t, "I have 8 cucumbers", pickles[1].Steps[0].Text)
	assert.Contains(t, pickles[0].Name, "a=5")
	assert.Contains(t, pickles[0].Name, "b=3")
}

func TestCompileTagsInheritFeatureAndScenario(t *testing.T) {
	pickles := compileText(t, "tags.feature", `@feature-tag
Feature: Tags
  @scenario-tag
  Scenario: One
    Given a step
`)

	require.Len(t, pickles, 1)
	assert.ElementsMatch(t, []string{"@feature-tag", "@scenario-tag"}, pickles[0].Tags)
	assert.True(t, pickles[0].HasTag("@feature-tag"))
	assert.False(t, pickles[0].HasTag("@missing"))
}

func TestCompileMintsUniquePickleAndStepIDs(t *testing.T) {
	pickles := compileText(t, "ids.feature", `Feature: IDs
  Scenario: One
    Given a step

  Scenario: Two
    Given a step
`)

	require.Len(t, pickles, 2)
	assert.NotEqual(t, pickles[0].ID, pickles[1].ID)
	assert.NotEqual(t, pickles[0].Steps[0].ID, pickles[1].Steps[0].ID)
}

func TestCompileDataTableArgument(t *testing.T) {
	pickles := compileText(t, "table.feature", `Feature: Table
  Scenario: One
    Given the following users
      | name  | age |
      | Alice | 30  |
`)

	require.Len(t, pickles, 1)

	arg := pickles[0].Steps[0].Argument
	require.NotNil(t, arg)
	require.NotNil(t, arg.DataTable)
	assert.Equal(t, [][]string{{"name", "age"}, {"Alice", "30"}}, arg.DataTable.Rows)
}

func TestCompileDocStringArgument(t *testing.T) {
	pickles := compileText(t, "docstring.feature", "Feature: DocString\n"+
		"  Scenario: One\n"+
		"    Given the following text\n"+
		"      \"\"\"\n"+
		"      hello world\n"+
		"      \"\"\"\n")

	require.Len(t, pickles, 1)

	arg := pickles[0].Steps[0].Argument
	require.NotNil(t, arg)
	require.NotNil(t, arg.DocString)
	assert.Equal(t, "hello world", arg.DocString.Content)
}

func TestCompileEmptyScenarioSkipped(t *testing.T) {
	c := cache.New()
	c.LoadText("empty.feature", "Feature: Empty\n  Scenario: Nothing\n")

	comp := New(ids.NewCounter())
	pickles := comp.CompileAll(c.Features())

	assert.Empty(t, pickles)
}
