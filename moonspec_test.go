package moonspec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonrockz/moonspec"
	"github.com/moonrockz/moonspec/internal/emitter"
	"github.com/moonrockz/moonspec/internal/results"
)

type cucumberWorld struct {
	cucumbers int
}

func (w *cucumberWorld) Configure(setup *moonspec.Setup) {
	moonspec.Given1(setup, "I have {int} cucumber(s)", func(t moonspec.StepTest, ctx *moonspec.Ctx, n int64) error {
		w.cucumbers = int(n)
		return nil
	})

	moonspec.When1(setup, "I eat {int} cucumber(s)", func(t moonspec.StepTest, ctx *moonspec.Ctx, n int64) error {
		w.cucumbers -= int(n)
		return nil
	})

	moonspec.Then1(setup, "I should have {int} cucumber(s)", func(t moonspec.StepTest, ctx *moonspec.Ctx, n int64) error {
		if w.cucumbers != int(n) {
			t.Errorf("expected %d cucumbers, have %d", n, w.cucumbers)
		}

		return nil
	})
}

const mathFeature = `Feature: Simple math
  Scenario: Addition
    Given I have 5 cucumbers
    When I eat 3 cucumbers
    Then I should have 2 cucumbers
`

func TestRunPassesAGreenScenario(t *testing.T) {
	res, err := moonspec.Run(func() moonspec.World { return &cucumberWorld{} }, moonspec.Options{
		Features: []moonspec.FeatureSource{moonspec.TextFeature("math.feature", mathFeature)},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.Total)
	assert.Equal(t, 1, res.Summary.Passed)
	assert.Equal(t, 0, res.Summary.Failed)
	require.Len(t, res.Features, 1)
	assert.Equal(t, "math.feature", res.Features[0].URI)
}

func TestRunReportsParseErrorsWithoutExecuting(t *testing.T) {
	res, err := moonspec.Run(func() moonspec.World { return &cucumberWorld{} }, moonspec.Options{
		Features: []moonspec.FeatureSource{moonspec.TextFeature("bad.feature", "not valid gherkin{{{")},
	})

	require.NoError(t, err)
	require.Len(t, res.ParseErrors, 1)
	assert.Equal(t, "bad.feature", res.ParseErrors[0].URI)
	assert.Equal(t, 0, res.Summary.Total)
}

type brokenWorld struct{}

func (brokenWorld) Configure(setup *moonspec.Setup) {
	moonspec.Given0(setup, "{nonexistent}", func(t moonspec.StepTest, ctx *moonspec.Ctx) error { return nil })
}

func TestRunReturnsConfigurationErrorOnBadPattern(t *testing.T) {
	_, err := moonspec.Run(func() moonspec.World { return brokenWorld{} }, moonspec.Options{
		Features: []moonspec.FeatureSource{moonspec.TextFeature("x.feature", mathFeature)},
	})

	require.Error(t, err)

	var cfgErr *moonspec.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, cfgErr.Errs, 1)
}

func TestRunFiltersByTagExpression(t *testing.T) {
	text := `Feature: Tagged
  @smoke
  Scenario: Keep
    Given I have 1 cucumbers

  @slow
  Scenario: Drop
    Given I have 1 cucumbers
`

	res, err := moonspec.Run(func() moonspec.World { return &cucumberWorld{} }, moonspec.Options{
		Features:      []moonspec.FeatureSource{moonspec.TextFeature("tagged.feature", text)},
		TagExpression: "@smoke",
	})

	require.NoError(t, err)
	require.Len(t, res.Features, 1)
	require.Len(t, res.Features[0].Scenarios, 1)
	assert.Equal(t, "Keep", res.Features[0].Scenarios[0].Name)
}

func TestRunSkipsTaggedScenario(t *testing.T) {
	text := `Feature: Skipping
  @skip
  Scenario: Skip me
    Given I have 1 cucumbers
`

	res, err := moonspec.Run(func() moonspec.World { return &cucumberWorld{} }, moonspec.Options{
		Features: []moonspec.FeatureSource{moonspec.TextFeature("skip.feature", text)},
	})

	require.NoError(t, err)
	require.Len(t, res.Features[0].Scenarios, 1)
	assert.Equal(t, results.ScenarioSkipped, res.Features[0].Scenarios[0].Status)
}

type captureSink struct {
	n int
}

func (c *captureSink) OnMessage(emitter.Envelope) { c.n++ }

func TestRunEmitsEnvelopesToEachSink(t *testing.T) {
	sink := &captureSink{}

	_, err := moonspec.Run(func() moonspec.World { return &cucumberWorld{} }, moonspec.Options{
		Features: []moonspec.FeatureSource{moonspec.TextFeature("math.feature", mathFeature)},
		Sinks:    []moonspec.Sink{sink},
	})

	require.NoError(t, err)
	assert.Greater(t, sink.n, 0)
}

func TestRunOrFailFailsOnFailingScenario(t *testing.T) {
	text := `Feature: Broken
  Scenario: Wrong math
    Given I have 1 cucumbers
    When I eat 1 cucumbers
    Then I should have 5 cucumbers
`

	rec := &recordingFailNower{}

	moonspec.RunOrFail(rec, func() moonspec.World { return &cucumberWorld{} }, moonspec.Options{
		Features: []moonspec.FeatureSource{moonspec.TextFeature("broken.feature", text)},
	})

	assert.True(t, rec.failed)
}

type recordingFailNower struct {
	failed bool
}

func (r *recordingFailNower) Helper() {}

func (r *recordingFailNower) Fatalf(format string, args ...any) {
	r.failed = true
}

type pendingWorld struct{}

func (pendingWorld) Configure(setup *moonspec.Setup) {
	moonspec.Given0(setup, "a pending precondition", func(t moonspec.StepTest, ctx *moonspec.Ctx) error {
		t.Skip("not implemented yet")
		return nil
	})
}

func TestRunOrFailFailsOnPendingScenario(t *testing.T) {
	text := `Feature: Not yet
  Scenario: Pending
    Given a pending precondition
`

	rec := &recordingFailNower{}

	moonspec.RunOrFail(rec, func() moonspec.World { return pendingWorld{} }, moonspec.Options{
		Features: []moonspec.FeatureSource{moonspec.TextFeature("pending.feature", text)},
	})

	assert.True(t, rec.failed)
}
