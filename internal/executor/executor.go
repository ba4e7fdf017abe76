package executor

import (
	"github.com/moonrockz/moonspec/internal/core"
	"github.com/moonrockz/moonspec/internal/emitter"
	"github.com/moonrockz/moonspec/internal/ids"
	"github.com/moonrockz/moonspec/internal/model"
	"github.com/moonrockz/moonspec/internal/registry"
	"github.com/moonrockz/moonspec/internal/results"

	"golang.org/x/sync/errgroup"
)

// Options configures one Run call's execution strategy (spec §4.7, §6.3).
type Options struct {
	Parallel      bool
	MaxConcurrent int
	Retries       int
	DryRun        bool
	SkipTags      []string
}

// Executor runs a filtered, compiled pickle list against fresh per-attempt
// worlds, emitting the TestCase-and-onward portion of the envelope stream
// (spec §4.6 steps 7-12). The Meta/Source/Pickle/StepDefinition/
// ParameterType/Hook envelopes (steps 1-6) are emitted by the caller
// before Run is invoked, from the same global registries passed here.
type Executor struct {
	emitter      *emitter.Emitter
	ids          *ids.Counter
	worldFactory core.WorldFactory
	globalHooks  *registry.HookRegistry
	globalSteps  *registry.StepRegistry
	runID        string
	opts         Options
}

func New(em *emitter.Emitter, counter *ids.Counter, worldFactory core.WorldFactory, globalHooks *registry.HookRegistry, globalSteps *registry.StepRegistry, runID string, opts Options) *Executor {
	return &Executor{
		emitter:      em,
		ids:          counter,
		worldFactory: worldFactory,
		globalHooks:  globalHooks,
		globalSteps:  globalSteps,
		runID:        runID,
		opts:         opts,
	}
}

type builtCase struct {
	pickle     model.Pickle
	testCaseID string
	steps      []caseStep
}

// Run executes every pickle and returns one ScenarioResult per pickle, in
// input order regardless of execution strategy.
func (e *Executor) Run(pickles []model.Pickle) []results.ScenarioResult {
	built := make([]builtCase, len(pickles))

	for i, p := range pickles {
		tc, cs := buildTestCase(e.ids, p, e.globalHooks, e.globalSteps)
		e.emitter.Emit(emitter.Envelope{TestCase: &tc})
		built[i] = builtCase{pickle: p, testCaseID: tc.ID, steps: cs}
	}

	e.emitter.Emit(emitter.Envelope{TestRunStarted: &emitter.TestRunStarted{Timestamp: emitter.Now()}})

	e.runRunHooks(registry.BeforeTestRun)

	var out []results.ScenarioResult
	if e.opts.Parallel {
		out = e.runParallel(built)
	} else {
		out = e.runSequential(built)
	}

	e.runRunHooks(registry.AfterTestRun)

	success := true

	for _, r := range out {
		if r.Status == results.ScenarioFailed || r.Status == results.ScenarioUndefined {
			success = false
		}
	}

	e.emitter.Emit(emitter.Envelope{TestRunFinished: &emitter.TestRunFinished{Success: success, Timestamp: emitter.Now()}})

	return out
}

func (e *Executor) runSequential(built []builtCase) []results.ScenarioResult {
	out := make([]results.ScenarioResult, len(built))

	for i, b := range built {
		out[i] = e.runPickle(b)
	}

	return out
}

func (e *Executor) runParallel(built []builtCase) []results.ScenarioResult {
	out := make([]results.ScenarioResult, len(built))

	max := e.opts.MaxConcurrent
	if max <= 0 {
		max = len(built)
	}

	var g errgroup.Group
	g.SetLimit(max)

	for i, b := range built {
		i, b := i, b

		g.Go(func() error {
			e.emitter.LockGroup()
			defer e.emitter.UnlockGroup()

			out[i] = e.runPickle(b)

			return nil
		})
	}

	_ = g.Wait()

	return out
}

// runRunHooks invokes every BeforeTestRun/AfterTestRun hook, emitting a
// TestRunHookStarted/Finished pair and draining its attachments for each.
func (e *Executor) runRunHooks(kind registry.HookType) {
	for _, h := range e.globalHooks.ByType(kind) {
		startedID := e.ids.Next("trhook")
		e.emitter.Emit(emitter.Envelope{TestRunHookStarted: &emitter.TestRunHookStarted{
			ID: startedID, HookID: h.ID, Timestamp: emitter.Now(),
		}})

		ctx := &core.RunHookCtx{RunID: e.runID}

		var oc outcome

		switch kind {
		case registry.BeforeTestRun:
			if fn, ok := h.Handler.(core.BeforeRunHook); ok {
				oc = runBeforeRunHook(fn, ctx)
			}
		case registry.AfterTestRun:
			if fn, ok := h.Handler.(core.AfterRunHook); ok {
				oc = runAfterRunHook(fn, ctx, core.PassedResult())
			}
		}

		e.emitAttachments(ctx.Drain(), "", "", startedID)

		status := "PASSED"
		if !oc.passed {
			status = "FAILED"
		}

		e.emitter.Emit(emitter.Envelope{TestRunHookFinished: &emitter.TestRunHookFinished{
			TestRunHookStartedID: startedID, Status: status, Message: oc.message, Timestamp: emitter.Now(),
		}})
	}
}

// emitAttachments converts drained attachments into Attachment/
// ExternalAttachment envelopes, scoped to whichever of (testCaseStartedID,
// testStepID) / testRunHookStartedID applies.
func (e *Executor) emitAttachments(entries []core.AttachmentEntry, testCaseStartedID, testStepID, runHookStartedID string) {
	for _, a := range entries {
		if a.Kind == core.AttachmentExternal {
			e.emitter.Emit(emitter.Envelope{ExternalAttachment: &emitter.ExternalAttachment{
				TestCaseStartedID:    testCaseStartedID,
				TestStepID:           testStepID,
				TestRunHookStartedID: runHookStartedID,
				URL:                  a.URL,
				MediaType:            a.MediaType,
			}})

			continue
		}

		enc := emitter.Identity
		if a.Encoding == core.EncodingBase64 {
			enc = emitter.Base64
		}

		e.emitter.Emit(emitter.Envelope{Attachment: &emitter.Attachment{
			TestCaseStartedID:    testCaseStartedID,
			TestStepID:           testStepID,
			TestRunHookStartedID: runHookStartedID,
			Body:                 a.Body,
			MediaType:            a.MediaType,
			FileName:             a.FileName,
			ContentEncoding:      enc,
		}})
	}
}
