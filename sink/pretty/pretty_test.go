package pretty

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moonrockz/moonspec/internal/emitter"
	"github.com/moonrockz/moonspec/internal/model"
)

func TestSinkRendersFinishedStepsAsTable(t *testing.T) {
	var buf bytes.Buffer

	s := New(&buf)

	p := model.Pickle{ID: "pk-1", Steps: []model.PickleStep{{ID: "ps-1", Keyword: "Given ", Text: "a precondition"}}}
	s.OnMessage(emitter.Envelope{Pickle: &p})

	tc := &emitter.TestCase{ID: "tc-1", PickleID: "pk-1", TestSteps: []emitter.TestStep{{ID: "ts-1", PickleStepID: "ps-1"}}}
	s.OnMessage(emitter.Envelope{TestCase: tc})

	s.OnMessage(emitter.Envelope{TestStepFinished: &emitter.TestStepFinished{TestStepID: "ts-1", Status: "PASSED"}})

	out := buf.String()
	assert.Contains(t, out, "a precondition")
	assert.Contains(t, out, "PASSED")
}

func TestSinkIgnoresHookOnlyTestSteps(t *testing.T) {
	var buf bytes.Buffer

	s := New(&buf)

	tc := &emitter.TestCase{ID: "tc-1", PickleID: "pk-1", TestSteps: []emitter.TestStep{{ID: "ts-1", HookID: "hook-0"}}}
	s.OnMessage(emitter.Envelope{TestCase: tc})

	s.OnMessage(emitter.Envelope{TestStepFinished: &emitter.TestStepFinished{TestStepID: "ts-1", Status: "PASSED"}})

	assert.Empty(t, s.rows)
}
