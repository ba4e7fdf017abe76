// Package cucumberjson is a reference emitter.Sink that accumulates the
// envelope stream into the classic Cucumber JSON array-of-features shape
// CI tools (Jenkins' cucumber-reports plugin and friends) consume,
// adapted from the teacher's formatter/cucumber datatypes and written out
// the way report.writeJsonFile does (json.MarshalIndent + os.WriteFile).
package cucumberjson

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/moonrockz/moonspec/internal/emitter"
)

type Feature struct {
	Elements    []*Scenario `json:"elements"`
	URI         string      `json:"uri"`
	ID          string      `json:"id"`
	Keyword     string      `json:"keyword"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
}

type Scenario struct {
	Steps   []Step `json:"steps"`
	Tags    []Tag  `json:"tags"`
	ID      string `json:"id"`
	Keyword string `json:"keyword"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

type Tag struct {
	Name string `json:"name"`
}

type Step struct {
	Keyword string     `json:"keyword"`
	Name    string     `json:"name"`
	Line    int64      `json:"line"`
	Match   Match      `json:"match"`
	Result  StepResult `json:"result"`
}

type Match struct {
	Location string `json:"location"`
}

type StepResult struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Sink builds up the Feature/Scenario/Step tree as envelopes arrive; call
// Save once the run has finished to write it to disk.
type Sink struct {
	mu sync.Mutex

	order    []string
	features map[string]*Feature

	stepMeta       map[string]pickleStepMeta // pickleStepId -> metadata
	testStepStep   map[string]string        // testStepId -> pickleStepId
	testStepPickle map[string]string        // testStepId -> pickleId
	scenarios      map[string]*Scenario      // pickleId -> current-attempt scenario
	scenarioURI    map[string]string         // pickleId -> feature uri
}

type pickleStepMeta struct {
	keyword string
	text    string
	line    int64
}

func New() *Sink {
	return &Sink{
		features:       map[string]*Feature{},
		stepMeta:       map[string]pickleStepMeta{},
		testStepStep:   map[string]string{},
		testStepPickle: map[string]string{},
		scenarios:      map[string]*Scenario{},
		scenarioURI:    map[string]string{},
	}
}

func (s *Sink) OnMessage(env emitter.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case env.GherkinDocument != nil:
		s.onGherkinDocument(env.GherkinDocument)
	case env.Pickle != nil:
		s.onPickle(env)
	case env.TestCase != nil:
		s.onTestCase(env.TestCase)
	case env.TestCaseStarted != nil:
		s.onTestCaseStarted(env.TestCaseStarted)
	case env.TestStepFinished != nil:
		s.onTestStepFinished(env.TestStepFinished)
	}
}

func (s *Sink) onGherkinDocument(doc *emitter.GherkinDocumentEnvelope) {
	feature := doc.Document.GetFeature()
	if feature == nil {
		return
	}

	if _, ok := s.features[doc.URI]; !ok {
		s.order = append(s.order, doc.URI)
	}

	s.features[doc.URI] = &Feature{
		URI: doc.URI, ID: feature.GetId(), Keyword: strings.TrimSpace(feature.GetKeyword()),
		Name: feature.GetName(), Description: feature.GetDescription(),
	}
}

func (s *Sink) onPickle(env emitter.Envelope) {
	p := env.Pickle
	s.scenarioURI[p.ID] = p.URI

	for _, step := range p.Steps {
		s.stepMeta[step.ID] = pickleStepMeta{keyword: step.Keyword, text: step.Text, line: step.Line}
	}

	tags := make([]Tag, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = Tag{Name: t}
	}

	s.scenarios[p.ID] = &Scenario{ID: p.ID, Keyword: "Scenario", Name: p.Name, Type: "scenario", Tags: tags}
}

func (s *Sink) onTestCase(tc *emitter.TestCase) {
	for _, ts := range tc.TestSteps {
		if ts.PickleStepID == "" {
			continue
		}

		s.testStepStep[ts.ID] = ts.PickleStepID
		s.testStepPickle[ts.ID] = tc.PickleID
	}
}

func (s *Sink) onTestCaseStarted(tcs *emitter.TestCaseStarted) {
	sc, ok := s.scenarios[tcs.PickleID]
	if !ok {
		return
	}

	sc.Steps = nil

	uri := s.scenarioURI[tcs.PickleID]

	f, ok := s.features[uri]
	if !ok {
		f = &Feature{URI: uri, Keyword: "Feature", Name: uri}
		s.features[uri] = f
		s.order = append(s.order, uri)
	}

	for _, existing := range f.Elements {
		if existing.ID == sc.ID {
			return
		}
	}

	f.Elements = append(f.Elements, sc)
}

func (s *Sink) onTestStepFinished(tsf *emitter.TestStepFinished) {
	pickleStepID, ok := s.testStepStep[tsf.TestStepID]
	if !ok {
		return
	}

	pickleID := s.testStepPickle[tsf.TestStepID]

	sc, ok := s.scenarios[pickleID]
	if !ok {
		return
	}

	meta := s.stepMeta[pickleStepID]

	sc.Steps = append(sc.Steps, Step{
		Keyword: meta.keyword, Name: meta.text, Line: meta.line,
		Result: StepResult{Status: strings.ToLower(tsf.Status), ErrorMessage: tsf.Message},
	})
}

// Save writes the accumulated feature tree to path as indented JSON.
func (s *Sink) Save(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Feature, 0, len(s.order))
	for _, uri := range s.order {
		out = append(out, s.features[uri])
	}

	data, err := json.MarshalIndent(out, "", "\t")
	if err != nil {
		return fmt.Errorf("cucumberjson: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cucumberjson: %w", err)
	}

	return nil
}
