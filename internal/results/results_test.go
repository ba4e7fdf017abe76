package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateStatusPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		steps  []StepResult
		status ScenarioStatus
	}{
		{"all passed", []StepResult{{Status: Passed}, {Status: Passed}}, ScenarioPassed},
		{"failed beats everything", []StepResult{{Status: Passed}, {Status: Failed}, {Status: Undefined}}, ScenarioFailed},
		{"undefined beats pending and skipped", []StepResult{{Status: Pending}, {Status: Undefined}, {Status: Skipped}}, ScenarioUndefined},
		{"pending beats skipped", []StepResult{{Status: Skipped}, {Status: Pending}}, ScenarioPending},
		{"skipped when nothing worse", []StepResult{{Status: Passed}, {Status: Skipped, SkipReason: "tagged @skip"}}, ScenarioSkipped},
		{"empty steps pass", nil, ScenarioPassed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := AggregateStatus(tt.steps)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestAggregateStatusCarriesFirstSkipReason(t *testing.T) {
	steps := []StepResult{
		{Status: Skipped, SkipReason: "tagged @skip"},
		{Status: Skipped, SkipReason: "second reason"},
	}

	status, reason := AggregateStatus(steps)

	assert.Equal(t, ScenarioSkipped, status)
	assert.Equal(t, "tagged @skip", reason)
}

func TestRunSummaryAddScenario(t *testing.T) {
	var s RunSummary

	s.AddScenario(ScenarioPassed, false)
	s.AddScenario(ScenarioFailed, true)
	s.AddScenario(ScenarioSkipped, false)
	s.AddScenario(ScenarioUndefined, false)
	s.AddScenario(ScenarioPending, false)

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 1, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.Undefined)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 1, s.Retried)
}

func TestStepStatusString(t *testing.T) {
	assert.Equal(t, "PASSED", Passed.String())
	assert.Equal(t, "FAILED", Failed.String())
	assert.Equal(t, "SKIPPED", Skipped.String())
	assert.Equal(t, "UNDEFINED", Undefined.String())
	assert.Equal(t, "PENDING", Pending.String())
}

func TestScenarioStatusString(t *testing.T) {
	assert.Equal(t, "passed", ScenarioPassed.String())
	assert.Equal(t, "failed", ScenarioFailed.String())
	assert.Equal(t, "skipped", ScenarioSkipped.String())
}
