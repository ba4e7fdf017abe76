package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonrockz/moonspec/internal/cucumberexpr"
	"github.com/moonrockz/moonspec/internal/ids"
	"github.com/moonrockz/moonspec/internal/registry"
)

func newSetup() *Setup {
	counter := ids.NewCounter()
	paramTypes := cucumberexpr.NewDefaultParamTypeRegistry()

	return NewSetup(registry.NewStepRegistry(counter, paramTypes), registry.NewHookRegistry(counter), paramTypes)
}

func TestSetupGivenWhenThenRegisterSteps(t *testing.T) {
	s := newSetup()

	s.Given("a precondition", func(StepTest, *Ctx) error { return nil })
	s.When("an action", func(StepTest, *Ctx) error { return nil })
	s.Then("an outcome", func(StepTest, *Ctx) error { return nil })

	assert.Empty(t, s.Errors())
	assert.Len(t, s.Steps.Entries(), 3)
}

func TestSetupRegistersInvalidPatternAsConfigurationError(t *testing.T) {
	s := newSetup()

	s.Given("{nonexistent}", func(StepTest, *Ctx) error { return nil })

	require.Len(t, s.Errors(), 1)
}

func TestSetupRegisterContinuesAfterError(t *testing.T) {
	s := newSetup()

	s.Given("{nonexistent}", func(StepTest, *Ctx) error { return nil })
	s.Given("a valid step", func(StepTest, *Ctx) error { return nil })

	assert.Len(t, s.Errors(), 1)
	assert.Len(t, s.Steps.Entries(), 1)
}

func TestSetupHooksRegisterAllSixShapes(t *testing.T) {
	s := newSetup()

	s.BeforeTestRun(func(*RunHookCtx) error { return nil })
	s.AfterTestRun(func(*RunHookCtx, HookResult) error { return nil })
	s.BeforeTestCase(func(*CaseHookCtx) error { return nil })
	s.AfterTestCase(func(*CaseHookCtx, HookResult) error { return nil })
	s.BeforeTestStep(func(*StepHookCtx) error { return nil })
	s.AfterTestStep(func(*StepHookCtx, HookResult) error { return nil })

	assert.Len(t, s.Hooks.All(), 6)
}

func TestSetupAddParamType(t *testing.T) {
	s := newSetup()

	s.AddParamType("flag", []string{"on|off"}, nil)
	s.Given("the switch is {flag}", func(StepTest, *Ctx) error { return nil })

	assert.Empty(t, s.Errors())

	res := s.Steps.FindMatch("the switch is on", "Given")
	assert.True(t, res.Matched)
}
