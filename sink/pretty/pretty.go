// Package pretty is a reference emitter.Sink that renders a live step
// table to a terminal using github.com/jedib0t/go-pretty/v6, the table
// library the rest of the example pack reaches for wherever the teacher's
// own formatter/cucumber package would otherwise hand-roll column
// alignment.
package pretty

import (
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/moonrockz/moonspec/internal/emitter"
)

// Sink accumulates one row per finished regular step and re-renders the
// whole table to w on every TestStepFinished; good enough for a small
// example suite, not meant for CI-scale output.
type Sink struct {
	mu sync.Mutex
	w  io.Writer

	pickleStepText map[string]string // pickleStepId -> step text
	testStepPickle map[string]string // testStepId -> pickleStepId

	rows []table.Row
}

func New(w io.Writer) *Sink {
	return &Sink{
		w:              w,
		pickleStepText: map[string]string{},
		testStepPickle: map[string]string{},
	}
}

func (s *Sink) OnMessage(env emitter.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case env.Pickle != nil:
		for _, step := range env.Pickle.Steps {
			s.pickleStepText[step.ID] = step.Keyword + step.Text
		}

	case env.TestCase != nil:
		for _, ts := range env.TestCase.TestSteps {
			if ts.PickleStepID != "" {
				s.testStepPickle[ts.ID] = ts.PickleStepID
			}
		}

	case env.TestStepFinished != nil:
		pickleStepID, ok := s.testStepPickle[env.TestStepFinished.TestStepID]
		if !ok {
			return
		}

		s.rows = append(s.rows, table.Row{
			s.pickleStepText[pickleStepID],
			colorizeStatus(env.TestStepFinished.Status),
			env.TestStepFinished.Message,
		})

		s.render()
	}
}

func (s *Sink) render() {
	t := table.NewWriter()
	t.SetOutputMirror(s.w)
	t.AppendHeader(table.Row{"Step", "Status", "Message"})
	t.AppendRows(s.rows)
	t.SetStyle(table.StyleLight)
	t.Render()
}

func colorizeStatus(status string) string {
	switch status {
	case "PASSED":
		return text.Colors{text.FgGreen}.Sprint(status)
	case "FAILED":
		return text.Colors{text.FgRed}.Sprint(status)
	case "UNDEFINED":
		return text.Colors{text.FgYellow}.Sprint(status)
	case "PENDING":
		return text.Colors{text.FgYellow}.Sprint(status)
	default:
		return text.Colors{text.FgHiBlack}.Sprint(status)
	}
}
