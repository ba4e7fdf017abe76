package executor

import (
	"strings"

	"github.com/moonrockz/moonspec/internal/core"
	"github.com/moonrockz/moonspec/internal/cucumberexpr"
	"github.com/moonrockz/moonspec/internal/emitter"
	"github.com/moonrockz/moonspec/internal/ids"
	"github.com/moonrockz/moonspec/internal/model"
	"github.com/moonrockz/moonspec/internal/registry"
	"github.com/moonrockz/moonspec/internal/results"
	"github.com/moonrockz/moonspec/value"
)

// runPickle resolves the skip/retry decision for one pickle and drives
// its attempt loop, returning the final (possibly retried) outcome.
func (e *Executor) runPickle(b builtCase) results.ScenarioResult {
	p := b.pickle

	if skip, reason := skipInfo(p, e.opts.SkipTags); skip {
		return e.runSkippedPickle(b, reason)
	}

	maxRetries := retryCount(p, e.opts.Retries)
	if e.opts.DryRun {
		maxRetries = 0
	}

	var (
		result   results.ScenarioResult
		attempts int
	)

	for {
		attempts++

		retriesLeft := maxRetries - (attempts - 1)

		var willBeRetried bool
		result, willBeRetried = e.runAttempt(b, attempts-1, retriesLeft)

		if !willBeRetried {
			break
		}
	}

	result.Attempts = attempts
	result.Retried = attempts > 1

	return result
}

func (e *Executor) runSkippedPickle(b builtCase, reason string) results.ScenarioResult {
	p := b.pickle

	tcStartedID := e.ids.Next("tcstarted")
	e.emitter.Emit(emitter.Envelope{TestCaseStarted: &emitter.TestCaseStarted{
		ID: tcStartedID, TestCaseID: b.testCaseID, PickleID: p.ID, Attempt: 0, Timestamp: emitter.Now(),
	}})

	var stepResults []results.StepResult

	for _, cs := range b.steps {
		if cs.Kind != stepRegular {
			continue
		}

		e.emitter.Emit(emitter.Envelope{TestStepStarted: &emitter.TestStepStarted{
			TestCaseStartedID: tcStartedID, TestStepID: cs.TestStepID, Timestamp: emitter.Now(),
		}})
		e.emitter.Emit(emitter.Envelope{TestStepFinished: &emitter.TestStepFinished{
			TestCaseStartedID: tcStartedID, TestStepID: cs.TestStepID,
			Status: results.Skipped.String(), Message: reason, Timestamp: emitter.Now(),
		}})

		stepResults = append(stepResults, results.StepResult{
			PickleStepID: cs.PickleStep.ID, Text: cs.PickleStep.Text,
			Status: results.Skipped, SkipReason: reason,
		})
	}

	e.emitter.Emit(emitter.Envelope{TestCaseFinished: &emitter.TestCaseFinished{
		TestCaseStartedID: tcStartedID, WillBeRetried: false, Timestamp: emitter.Now(),
	}})

	status, skipReason := results.AggregateStatus(stepResults)

	return results.ScenarioResult{
		PickleID: p.ID, URI: p.URI, Name: p.Name, Tags: p.Tags,
		Steps: stepResults, Status: status, SkipReason: skipReason, Attempts: 1,
	}
}

// runAttempt builds a fresh world and per-attempt registries, configures
// them, and executes one attempt of the pickle against them. retriesLeft
// is the number of further attempts still available if this one fails.
func (e *Executor) runAttempt(b builtCase, attempt, retriesLeft int) (results.ScenarioResult, bool) {
	p := b.pickle

	attemptIDs := ids.NewCounter()
	paramTypes := cucumberexpr.NewDefaultParamTypeRegistry()
	stepReg := registry.NewStepRegistry(attemptIDs, paramTypes)
	hookReg := registry.NewHookRegistry(attemptIDs)

	world := e.worldFactory()
	setup := core.NewSetup(stepReg, hookReg, paramTypes)
	world.Configure(setup)

	beforeCase := hookReg.ByType(registry.BeforeTestCase)
	afterCase := hookReg.ByType(registry.AfterTestCase)
	beforeStep := hookReg.ByType(registry.BeforeTestStep)
	afterStep := hookReg.ByType(registry.AfterTestStep)

	tcStartedID := e.ids.Next("tcstarted")
	e.emitter.Emit(emitter.Envelope{TestCaseStarted: &emitter.TestCaseStarted{
		ID: tcStartedID, TestCaseID: b.testCaseID, PickleID: p.ID, Attempt: attempt, Timestamp: emitter.Now(),
	}})

	var (
		stepResults  []results.StepResult
		hookErrors   []results.HookError
		scenarioDead bool
		beforeIdx    int
		afterIdx     int
	)

	caseCtx := &core.CaseHookCtx{World: world, URI: p.URI, PickleID: p.ID, ScenarioName: p.Name, Tags: p.Tags, Attempt: attempt}

	for _, cs := range b.steps {
		switch cs.Kind {
		case stepBeforeCaseHook:
			if beforeIdx >= len(beforeCase) {
				continue
			}

			h := beforeCase[beforeIdx]
			beforeIdx++

			oc := e.runCaseHookStep(tcStartedID, cs.TestStepID, caseCtx, func() outcome {
				fn, _ := h.Handler.(core.BeforeCaseHook)
				return runBeforeCaseHook(fn, caseCtx)
			})

			if !oc.passed {
				scenarioDead = true
				hookErrors = append(hookErrors, results.HookError{Feature: p.URI, Scenario: p.Name, Message: oc.message})
			}

		case stepAfterCaseHook:
			if afterIdx >= len(afterCase) {
				continue
			}

			h := afterCase[afterIdx]
			afterIdx++

			result := core.PassedResult()
			if scenarioDead {
				result = core.FailedResult()
			}

			oc := e.runCaseHookStep(tcStartedID, cs.TestStepID, caseCtx, func() outcome {
				fn, _ := h.Handler.(core.AfterCaseHook)
				return runAfterCaseHook(fn, caseCtx, result)
			})

			if !oc.passed {
				hookErrors = append(hookErrors, results.HookError{Feature: p.URI, Scenario: p.Name, Message: oc.message})
			}

		case stepRegular:
			sr := e.runRegularStep(tcStartedID, cs, stepReg, beforeStep, afterStep, caseCtx, world, scenarioDead)
			stepResults = append(stepResults, sr)

			if sr.Status == results.Failed || sr.Status == results.Undefined {
				scenarioDead = true
			}
		}
	}

	status, skipReason := results.AggregateStatus(stepResults)
	if scenarioDead && status == results.ScenarioPassed {
		status = results.ScenarioFailed
	}

	willBeRetried := status == results.ScenarioFailed && retriesLeft > 0

	e.emitter.Emit(emitter.Envelope{TestCaseFinished: &emitter.TestCaseFinished{
		TestCaseStartedID: tcStartedID, WillBeRetried: willBeRetried, Timestamp: emitter.Now(),
	}})

	return results.ScenarioResult{
		PickleID: p.ID, URI: p.URI, Name: p.Name, Tags: p.Tags,
		Steps: stepResults, Status: status, SkipReason: skipReason, HookErrors: hookErrors,
	}, willBeRetried
}

func (e *Executor) runCaseHookStep(tcStartedID, testStepID string, ctx *core.CaseHookCtx, call func() outcome) outcome {
	e.emitter.Emit(emitter.Envelope{TestStepStarted: &emitter.TestStepStarted{
		TestCaseStartedID: tcStartedID, TestStepID: testStepID, Timestamp: emitter.Now(),
	}})

	oc := call()

	e.emitAttachments(ctx.Drain(), tcStartedID, testStepID, "")

	status := results.Passed.String()
	if !oc.passed {
		status = results.Failed.String()
	}

	e.emitter.Emit(emitter.Envelope{TestStepFinished: &emitter.TestStepFinished{
		TestCaseStartedID: tcStartedID, TestStepID: testStepID,
		Status: status, Message: oc.message, Timestamp: emitter.Now(),
	}})

	return oc
}

// runRegularStep executes one pickle step: BeforeTestStep hooks, the
// matched (or undefined/dry-run) handler, then AfterTestStep hooks, all
// inside a single TestStepStarted/Finished envelope pair (spec §4.7.d).
func (e *Executor) runRegularStep(
	tcStartedID string, cs caseStep, stepReg *registry.StepRegistry,
	beforeStep, afterStep []*registry.Hook, caseCtx *core.CaseHookCtx,
	world core.World, alreadyDead bool,
) results.StepResult {
	pstep := cs.PickleStep

	e.emitter.Emit(emitter.Envelope{TestStepStarted: &emitter.TestStepStarted{
		TestCaseStartedID: tcStartedID, TestStepID: cs.TestStepID, Timestamp: emitter.Now(),
	}})

	stepCtx := &core.StepHookCtx{
		World: world, URI: caseCtx.URI, PickleID: caseCtx.PickleID,
		ScenarioName: caseCtx.ScenarioName, StepID: pstep.ID, StepText: pstep.Text,
	}

	var hookFailed bool

	if alreadyDead {
		return e.finishSkippedStep(tcStartedID, cs.TestStepID, pstep, "previous step failed")
	}

	for _, h := range beforeStep {
		fn, _ := h.Handler.(core.BeforeStepHook)

		oc := runBeforeStepHook(fn, stepCtx)

		e.emitAttachments(stepCtx.Drain(), tcStartedID, cs.TestStepID, "")

		if !oc.passed {
			hookFailed = true
		}
	}

	var (
		status  results.StepStatus
		message string
	)

	switch {
	case hookFailed:
		status, message = results.Failed, "before-step hook failed"
	case e.opts.DryRun:
		match := stepReg.FindMatch(pstep.Text, pstep.Keyword)
		if match.Matched {
			status, message = results.Skipped, "dry run"
		} else {
			status, message = results.Undefined, undefinedMessage(match.Undefined)
		}
	default:
		match := stepReg.FindMatch(pstep.Text, pstep.Keyword)
		if !match.Matched {
			status, message = results.Undefined, undefinedMessage(match.Undefined)
		} else {
			args := make([]value.Arg, len(match.Args))
			copy(args, match.Args)

			if arg := pstep.Argument; arg != nil {
				switch {
				case arg.DocString != nil:
					doc := value.DocStringVal{ContentType: arg.DocString.ContentType, Content: arg.DocString.Content}
					args = append(args, value.Arg{Value: value.Custom("DocString", doc), Raw: doc.Content})
				case arg.DataTable != nil:
					args = append(args, value.Arg{Value: value.Custom("DataTable", value.DataTableVal{Rows: arg.DataTable.Rows})})
				}
			}

			ctx := &core.Ctx{
				World: world, Args: args,
				URI: caseCtx.URI, PickleID: caseCtx.PickleID, ScenarioName: caseCtx.ScenarioName,
				Tags: caseCtx.Tags, StepID: pstep.ID, StepText: pstep.Text,
			}

			handler, _ := match.Def.Handler.(core.StepHandler)

			oc := runStepHandler(handler, ctx)

			e.emitAttachments(ctx.Drain(), tcStartedID, cs.TestStepID, "")

			switch {
			case oc.skipped:
				status, message = results.Pending, oc.message
			case !oc.passed:
				status, message = results.Failed, oc.message
			default:
				status, message = results.Passed, ""
			}
		}
	}

	for _, h := range afterStep {
		fn, _ := h.Handler.(core.AfterStepHook)

		result := core.PassedResult()
		if status == results.Failed || status == results.Undefined {
			result = core.FailedResult(core.HookError{Step: pstep.Text, Message: message})
		}

		oc := runAfterStepHook(fn, stepCtx, result)

		e.emitAttachments(stepCtx.Drain(), tcStartedID, cs.TestStepID, "")

		if !oc.passed && status == results.Passed {
			status, message = results.Failed, "after-step hook failed"
		}
	}

	e.emitter.Emit(emitter.Envelope{TestStepFinished: &emitter.TestStepFinished{
		TestCaseStartedID: tcStartedID, TestStepID: cs.TestStepID,
		Status: status.String(), Message: message, Timestamp: emitter.Now(),
	}})

	sr := results.StepResult{PickleStepID: pstep.ID, Text: pstep.Text, Status: status, Message: message}
	if status == results.Skipped {
		sr.SkipReason = message
	}

	return sr
}

// undefinedMessage renders FindMatch's snippet + suggestions into the
// TestStepFinished diagnostic message.
func undefinedMessage(u *registry.UndefinedInfo) string {
	if u == nil {
		return "Undefined step."
	}

	var b strings.Builder

	b.WriteString("Undefined step. Implement it with:\n")
	b.WriteString(u.Snippet)

	if len(u.Suggestions) > 0 {
		b.WriteString("\nDid you mean:\n")

		for _, s := range u.Suggestions {
			b.WriteString("  ")
			b.WriteString(s)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (e *Executor) finishSkippedStep(tcStartedID, testStepID string, pstep *model.PickleStep, reason string) results.StepResult {
	e.emitter.Emit(emitter.Envelope{TestStepFinished: &emitter.TestStepFinished{
		TestCaseStartedID: tcStartedID, TestStepID: testStepID,
		Status: results.Skipped.String(), Message: reason, Timestamp: emitter.Now(),
	}})

	return results.StepResult{PickleStepID: pstep.ID, Text: pstep.Text, Status: results.Skipped, SkipReason: reason}
}
