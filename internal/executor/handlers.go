// Package executor runs each filtered pickle with a fresh world instance,
// interleaving hook execution with step execution, and emits the
// envelope stream describing the run (spec §4.7–§4.9).
package executor

import (
	"fmt"

	"github.com/moonrockz/moonspec/internal/core"
)

// outcome is the result of invoking one handler (step or hook): whether
// it passed, and — on failure or skip — the message to report.
type outcome struct {
	passed  bool
	skipped bool
	message string
}

func runStepHandler(handler core.StepHandler, ctx *core.Ctx) outcome {
	rec := core.NewRecorder()

	var handlerErr error

	func() {
		defer func() {
			if r := recover(); r != nil && !core.IsFailNowSignal(r) {
				rec.Fail()
				handlerErr = fmt.Errorf("%v", r)
			}
		}()

		handlerErr = handler(rec, ctx)
	}()

	if handlerErr != nil {
		rec.Fail()
	}

	switch {
	case rec.Skipped():
		return outcome{skipped: true, message: rec.Message()}
	case rec.Failed():
		msg := rec.Message()
		if handlerErr != nil {
			msg = handlerErr.Error()
		}

		return outcome{passed: false, message: msg}
	default:
		return outcome{passed: true}
	}
}

func runBeforeCaseHook(fn core.BeforeCaseHook, ctx *core.CaseHookCtx) outcome {
	return runVoidHook(func() error { return fn(ctx) })
}

func runAfterCaseHook(fn core.AfterCaseHook, ctx *core.CaseHookCtx, result core.HookResult) outcome {
	return runVoidHook(func() error { return fn(ctx, result) })
}

func runBeforeStepHook(fn core.BeforeStepHook, ctx *core.StepHookCtx) outcome {
	return runVoidHook(func() error { return fn(ctx) })
}

func runAfterStepHook(fn core.AfterStepHook, ctx *core.StepHookCtx, result core.HookResult) outcome {
	return runVoidHook(func() error { return fn(ctx, result) })
}

func runBeforeRunHook(fn core.BeforeRunHook, ctx *core.RunHookCtx) outcome {
	return runVoidHook(func() error { return fn(ctx) })
}

func runAfterRunHook(fn core.AfterRunHook, ctx *core.RunHookCtx, result core.HookResult) outcome {
	return runVoidHook(func() error { return fn(ctx, result) })
}

func runVoidHook(call func() error) outcome {
	var (
		err     error
		paniced any
	)

	func() {
		defer func() {
			paniced = recover()
		}()

		err = call()
	}()

	if paniced != nil {
		return outcome{passed: false, message: fmt.Sprintf("%v", paniced)}
	}

	if err != nil {
		return outcome{passed: false, message: err.Error()}
	}

	return outcome{passed: true}
}
