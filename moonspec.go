// Package moonspec is a Cucumber-expression-driven BDD runner: it compiles
// Gherkin features into pickles, matches their steps against a World's
// registered step definitions, executes them, and emits a canonically
// ordered Cucumber Messages-shaped envelope stream (spec §3, §4.6).
package moonspec

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/moonrockz/moonspec/internal/cache"
	"github.com/moonrockz/moonspec/internal/compiler"
	"github.com/moonrockz/moonspec/internal/core"
	"github.com/moonrockz/moonspec/internal/cucumberexpr"
	"github.com/moonrockz/moonspec/internal/emitter"
	"github.com/moonrockz/moonspec/internal/executor"
	"github.com/moonrockz/moonspec/internal/filter"
	"github.com/moonrockz/moonspec/internal/ids"
	"github.com/moonrockz/moonspec/internal/model"
	"github.com/moonrockz/moonspec/internal/registry"
	"github.com/moonrockz/moonspec/internal/results"
)

// ConfigurationError wraps every step/parameter-type registration failure
// collected while building the glue registries (spec §7). Run never
// executes a single pickle when this is returned.
type ConfigurationError struct {
	Errs []error
}

func (e *ConfigurationError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}

	return fmt.Sprintf("moonspec: %d configuration error(s): %s", len(e.Errs), strings.Join(msgs, "; "))
}

// Run loads and compiles Options.Features, filters the resulting pickles,
// and executes them against fresh World instances, returning the
// aggregated result tree (spec §6.2).
func Run(worldFactory WorldFactory, opts Options) (RunResult, error) {
	counter := ids.NewCounter()
	featureCache := cache.New()

	var parseErrors []ParseErrorInfo

	for _, src := range opts.Features {
		for _, pe := range featureCache.LoadFromSource(src) {
			parseErrors = append(parseErrors, ParseErrorInfo{URI: pe.URI, Message: pe.Message})
		}
	}

	comp := compiler.New(counter)
	pickles := comp.CompileAll(featureCache.Features())

	tagFilter, err := filter.New(opts.TagExpression, opts.ScenarioNames)
	if err != nil {
		return RunResult{}, fmt.Errorf("moonspec: %w", err)
	}

	filtered := tagFilter.Apply(pickles)

	globalParamTypes := cucumberexpr.NewDefaultParamTypeRegistry()
	globalSteps := registry.NewStepRegistry(counter, globalParamTypes)
	globalHooks := registry.NewHookRegistry(counter)

	throwaway := worldFactory()
	globalSetup := core.NewSetup(globalSteps, globalHooks, globalParamTypes)
	throwaway.Configure(globalSetup)

	if errs := globalSetup.Errors(); len(errs) > 0 {
		return RunResult{}, &ConfigurationError{Errs: errs}
	}

	runID := uuid.NewString()
	em := emitter.New(counter, opts.Sinks)

	emitMetadata(em, featureCache, parseErrors, filtered, globalSteps, globalParamTypes, globalHooks, runID)

	execOpts := executor.Options{
		Parallel:      opts.Parallel,
		MaxConcurrent: opts.MaxConcurrent,
		Retries:       opts.Retries,
		DryRun:        opts.DryRun,
		SkipTags:      opts.skipTags(),
	}

	ex := executor.New(em, counter, worldFactory, globalHooks, globalSteps, runID, execOpts)
	scenarioResults := ex.Run(filtered)

	return buildRunResult(filtered, scenarioResults, parseErrors), nil
}

func emitMetadata(
	em *emitter.Emitter,
	featureCache *cache.Cache,
	parseErrors []ParseErrorInfo,
	filtered []model.Pickle,
	globalSteps *registry.StepRegistry,
	globalParamTypes *cucumberexpr.ParamTypeRegistry,
	globalHooks *registry.HookRegistry,
	runID string,
) {
	em.Emit(emitter.Envelope{Meta: &emitter.Meta{RunID: runID, Implementation: "moonspec"}})

	for _, fe := range featureCache.Features() {
		source, _ := featureCache.Source(fe.URI)
		em.Emit(emitter.Envelope{Source: &emitter.Source{URI: fe.URI, Data: source, MediaType: "text/x.cucumber.gherkin+plain"}})
		em.Emit(emitter.Envelope{GherkinDocument: &emitter.GherkinDocumentEnvelope{URI: fe.URI, Document: fe.Document}})
	}

	for _, pe := range parseErrors {
		em.Emit(emitter.Envelope{ParseError: &emitter.ParseError{URI: pe.URI, Message: pe.Message}})
	}

	for i := range filtered {
		p := filtered[i]
		em.Emit(emitter.Envelope{Pickle: &p})
	}

	for _, def := range globalSteps.Entries() {
		em.Emit(emitter.Envelope{StepDefinition: &emitter.StepDefinitionEnvelope{
			ID: def.ID, Category: def.Category.String(), Pattern: def.Pattern, Source: def.Source,
		}})
	}

	for _, pt := range globalParamTypes.Entries() {
		em.Emit(emitter.Envelope{ParameterType: &emitter.ParameterTypeEnvelope{Name: pt.Name, Patterns: pt.Patterns}})
	}

	for _, h := range globalHooks.All() {
		em.Emit(emitter.Envelope{Hook: &emitter.HookEnvelope{ID: h.ID, Type: h.Type.String(), Source: h.Source}})
	}
}

func buildRunResult(pickles []model.Pickle, scenarioResults []ScenarioResult, parseErrors []ParseErrorInfo) RunResult {
	var summary RunSummary

	order := make([]string, 0)
	byURI := map[string]*results.FeatureResult{}

	for i, sr := range scenarioResults {
		uri := pickles[i].URI

		fr, ok := byURI[uri]
		if !ok {
			fr = &results.FeatureResult{URI: uri}
			byURI[uri] = fr
			order = append(order, uri)
		}

		fr.Scenarios = append(fr.Scenarios, sr)
		summary.AddScenario(sr.Status, sr.Retried)
	}

	features := make([]FeatureResult, 0, len(order))
	for _, uri := range order {
		features = append(features, *byURI[uri])
	}

	return RunResult{Features: features, Summary: summary, ParseErrors: parseErrors}
}

// failNower is the minimal surface RunOrFail needs from *testing.T.
type failNower interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RunOrFail runs exactly like Run but fails t immediately on a
// ConfigurationError, a parse error, or any failed, undefined or pending
// scenario (skipped scenarios do not fail t), mirroring the teacher's
// cucumberreport "fail the suite" convention.
func RunOrFail(t failNower, worldFactory WorldFactory, opts Options) RunResult {
	t.Helper()

	res, err := Run(worldFactory, opts)
	if err != nil {
		t.Fatalf("moonspec: %v", err)
		return RunResult{}
	}

	if len(res.ParseErrors) > 0 {
		t.Fatalf("moonspec: %d feature(s) failed to parse: %+v", len(res.ParseErrors), res.ParseErrors)
		return res
	}

	if res.Summary.Failed > 0 || res.Summary.Undefined > 0 || res.Summary.Pending > 0 {
		t.Fatalf(
			"moonspec: run did not pass: %d passed, %d failed, %d undefined, %d pending, %d skipped",
			res.Summary.Passed, res.Summary.Failed, res.Summary.Undefined, res.Summary.Pending, res.Summary.Skipped,
		)
	}

	return res
}
