package core

import (
	"github.com/moonrockz/moonspec/internal/cucumberexpr"
	"github.com/moonrockz/moonspec/internal/registry"
)

// World is the single user extension point: a fresh instance is created
// per pickle attempt and asked to register its steps, parameter types,
// and hooks against a throwaway Setup (spec §6.5).
type World interface {
	Configure(setup *Setup)
}

// WorldFactory produces a fresh World for each pickle attempt.
type WorldFactory func() World

// StepHandler is the plain step-handler shape; Args on Ctx carries the
// matched arguments for handlers that want to index them manually. The
// arity-suffixed GivenN/WhenN/ThenN/StepN helpers in the root package
// build on top of this by extracting typed arguments automatically.
type StepHandler func(t StepTest, ctx *Ctx) error

type BeforeRunHook func(ctx *RunHookCtx) error
type AfterRunHook func(ctx *RunHookCtx, result HookResult) error
type BeforeCaseHook func(ctx *CaseHookCtx) error
type AfterCaseHook func(ctx *CaseHookCtx, result HookResult) error
type BeforeStepHook func(ctx *StepHookCtx) error
type AfterStepHook func(ctx *StepHookCtx, result HookResult) error

// Setup is populated once per pickle attempt by World.Configure. Any
// invalid pattern registered against it surfaces as a ConfigurationError
// at Run() (spec §7): registration errors accumulate rather than panic,
// so a user's Configure can register many steps without early-exiting.
type Setup struct {
	Steps      *registry.StepRegistry
	Hooks      *registry.HookRegistry
	ParamTypes *cucumberexpr.ParamTypeRegistry

	errs []error
}

func NewSetup(steps *registry.StepRegistry, hooks *registry.HookRegistry, paramTypes *cucumberexpr.ParamTypeRegistry) *Setup {
	return &Setup{Steps: steps, Hooks: hooks, ParamTypes: paramTypes}
}

func (s *Setup) Given(pattern string, handler StepHandler) {
	s.register(registry.CategoryGiven, pattern, handler)
}

func (s *Setup) When(pattern string, handler StepHandler) {
	s.register(registry.CategoryWhen, pattern, handler)
}

func (s *Setup) Then(pattern string, handler StepHandler) {
	s.register(registry.CategoryThen, pattern, handler)
}

func (s *Setup) Step(pattern string, handler StepHandler) {
	s.register(registry.CategoryStep, pattern, handler)
}

func (s *Setup) register(category registry.Category, pattern string, handler StepHandler) {
	if _, err := s.Steps.Register(category, pattern, handler, ""); err != nil {
		s.errs = append(s.errs, err)
	}
}

// AddParamType registers a custom parameter type for use in step patterns
// registered after it. Patterns are compiled when they are registered, so
// steps registered before this call do not see the new type.
func (s *Setup) AddParamType(name string, patterns []string, transformer cucumberexpr.Transformer) {
	s.ParamTypes.Register(name, cucumberexpr.KindCustom, patterns, transformer)
}

func (s *Setup) BeforeTestRun(h BeforeRunHook)   { s.Hooks.Register(registry.BeforeTestRun, h, "") }
func (s *Setup) AfterTestRun(h AfterRunHook)     { s.Hooks.Register(registry.AfterTestRun, h, "") }
func (s *Setup) BeforeTestCase(h BeforeCaseHook) { s.Hooks.Register(registry.BeforeTestCase, h, "") }
func (s *Setup) AfterTestCase(h AfterCaseHook)   { s.Hooks.Register(registry.AfterTestCase, h, "") }
func (s *Setup) BeforeTestStep(h BeforeStepHook) { s.Hooks.Register(registry.BeforeTestStep, h, "") }
func (s *Setup) AfterTestStep(h AfterStepHook)   { s.Hooks.Register(registry.AfterTestStep, h, "") }

// Errors returns every registration failure collected during Configure.
func (s *Setup) Errors() []error {
	return s.errs
}
