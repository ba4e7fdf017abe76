package core

import "github.com/moonrockz/moonspec/value"

// StepTest is the handler-facing interface for reporting step outcomes
// without panicking the process. It includes Errorf and FailNow, so any
// StepTest satisfies testify's require.TestingT and users can keep using
// testify/go-bdd-style assertions inside step handlers.
type StepTest interface {
	Log(args ...any)
	Logf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Fail()
	FailNow()
	Skip(args ...any)
	Skipf(format string, args ...any)
	Failed() bool
	Skipped() bool
}

// Ctx is the per-step-invocation context: matched arguments, scenario and
// step metadata, and an attachment buffer (spec §3.1).
type Ctx struct {
	attachments

	World World

	Args []value.Arg

	URI         string
	PickleID    string
	ScenarioName string
	Tags        []string

	StepID   string
	StepText string
}

// Arg returns the i'th matched argument's value, or the zero StepValue
// when out of range.
func (c *Ctx) Arg(i int) value.StepValue {
	if i < 0 || i >= len(c.Args) {
		return value.StepValue{}
	}

	return c.Args[i].Value
}

// RunHookCtx is passed to BeforeTestRun/AfterTestRun hooks.
type RunHookCtx struct {
	attachments

	RunID string
}

// CaseHookCtx is passed to BeforeTestCase/AfterTestCase hooks.
type CaseHookCtx struct {
	attachments

	World        World
	URI          string
	PickleID     string
	ScenarioName string
	Tags         []string
	Attempt      int
}

// StepHookCtx is passed to BeforeTestStep/AfterTestStep hooks.
type StepHookCtx struct {
	attachments

	World        World
	URI          string
	PickleID     string
	ScenarioName string
	StepID       string
	StepText     string
}

// HookResult is passed to after-hooks, summarizing the outcome of the
// scope (run/case/step) that just finished.
type HookResult struct {
	Passed bool
	Errors []HookError
}

// HookError carries the context of a failure being reported to an
// after-hook.
type HookError struct {
	Feature  string
	Scenario string
	Step     string
	Message  string
}

func PassedResult() HookResult { return HookResult{Passed: true} }

func FailedResult(errs ...HookError) HookResult {
	return HookResult{Passed: false, Errors: errs}
}
