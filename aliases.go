package moonspec

import (
	"github.com/moonrockz/moonspec/internal/core"
	"github.com/moonrockz/moonspec/internal/results"
	"github.com/moonrockz/moonspec/value"
)

// Ctx, Setup, World and friends live in internal/core so internal/executor
// can depend on them without an import cycle back to this package; these
// aliases are the public surface users actually write against (spec §6.5).
type (
	Ctx          = core.Ctx
	StepTest     = core.StepTest
	Setup        = core.Setup
	World        = core.World
	WorldFactory = core.WorldFactory

	RunHookCtx  = core.RunHookCtx
	CaseHookCtx = core.CaseHookCtx
	StepHookCtx = core.StepHookCtx

	HookResult = core.HookResult
	HookError  = core.HookError

	StepHandler    = core.StepHandler
	BeforeRunHook  = core.BeforeRunHook
	AfterRunHook   = core.AfterRunHook
	BeforeCaseHook = core.BeforeCaseHook
	AfterCaseHook  = core.AfterCaseHook
	BeforeStepHook = core.BeforeStepHook
	AfterStepHook  = core.AfterStepHook

	StepValue = value.StepValue
	Arg       = value.Arg

	RunResult      = results.RunResult
	RunSummary     = results.RunSummary
	FeatureResult  = results.FeatureResult
	ScenarioResult = results.ScenarioResult
	StepResult     = results.StepResult
	StepStatus     = results.StepStatus
	ScenarioStatus = results.ScenarioStatus
	ParseErrorInfo = results.ParseErrorInfo
)

// PassedResult builds a passing HookResult for an after-hook.
func PassedResult() HookResult { return core.PassedResult() }

// FailedResult builds a failing HookResult carrying errs for an after-hook.
func FailedResult(errs ...HookError) HookResult { return core.FailedResult(errs...) }
