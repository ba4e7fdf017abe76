// Package emitter publishes the canonically ordered envelope stream
// described in spec §4.6, wire-compatible in shape with Cucumber Messages
// (camelCase fields, {seconds,nanos} timestamps, IDENTITY/BASE64
// attachment encodings).
package emitter

import (
	"time"

	msgs "github.com/cucumber/messages-go/v12"

	"github.com/moonrockz/moonspec/internal/model"
)

// Timestamp mirrors the Cucumber Messages {seconds, nanos} shape.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

func Now() Timestamp {
	t := time.Now()
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// ContentEncoding is the attachment body encoding.
type ContentEncoding string

const (
	Identity ContentEncoding = "IDENTITY"
	Base64   ContentEncoding = "BASE64"
)

type Meta struct {
	RunID          string `json:"runId"`
	Implementation string `json:"implementation"`
}

type Source struct {
	URI       string `json:"uri"`
	Data      string `json:"data"`
	MediaType string `json:"mediaType"`
}

type GherkinDocumentEnvelope struct {
	URI      string                 `json:"uri"`
	Document *msgs.GherkinDocument `json:"-"`
}

type ParseError struct {
	URI     string `json:"uri"`
	Message string `json:"message"`
}

type StepDefinitionEnvelope struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Pattern  string `json:"pattern"`
	Source   string `json:"sourceReference,omitempty"`
}

type ParameterTypeEnvelope struct {
	Name     string   `json:"name"`
	Patterns []string `json:"regularExpressions"`
}

type HookEnvelope struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Source string `json:"sourceReference,omitempty"`
}

type TestStep struct {
	ID                string   `json:"id"`
	PickleStepID      string   `json:"pickleStepId,omitempty"`
	HookID            string   `json:"hookId,omitempty"`
	StepDefinitionIDs []string `json:"stepDefinitionIds,omitempty"`
}

type TestCase struct {
	ID        string     `json:"id"`
	PickleID  string     `json:"pickleId"`
	TestSteps []TestStep `json:"testSteps"`
}

type TestRunStarted struct {
	Timestamp Timestamp `json:"timestamp"`
}

type TestRunFinished struct {
	Success   bool      `json:"success"`
	Timestamp Timestamp `json:"timestamp"`
}

type TestCaseStarted struct {
	ID         string    `json:"id"`
	TestCaseID string    `json:"testCaseId"`
	PickleID   string    `json:"pickleId"`
	Attempt    int       `json:"attempt"`
	Timestamp  Timestamp `json:"timestamp"`
}

type TestCaseFinished struct {
	TestCaseStartedID string    `json:"testCaseStartedId"`
	WillBeRetried     bool      `json:"willBeRetried"`
	Timestamp         Timestamp `json:"timestamp"`
}

type TestStepStarted struct {
	TestCaseStartedID string    `json:"testCaseStartedId"`
	TestStepID        string    `json:"testStepId"`
	Timestamp         Timestamp `json:"timestamp"`
}

type TestStepFinished struct {
	TestCaseStartedID string    `json:"testCaseStartedId"`
	TestStepID        string    `json:"testStepId"`
	Status            string    `json:"status"`
	Message           string    `json:"message,omitempty"`
	Timestamp         Timestamp `json:"timestamp"`
}

type Attachment struct {
	TestCaseStartedID string          `json:"testCaseStartedId,omitempty"`
	TestStepID        string          `json:"testStepId,omitempty"`
	TestRunHookStartedID string       `json:"testRunHookStartedId,omitempty"`
	Body              string          `json:"body"`
	MediaType         string          `json:"mediaType"`
	FileName          string          `json:"fileName,omitempty"`
	ContentEncoding   ContentEncoding `json:"contentEncoding"`
}

type ExternalAttachment struct {
	TestCaseStartedID    string `json:"testCaseStartedId,omitempty"`
	TestStepID           string `json:"testStepId,omitempty"`
	TestRunHookStartedID string `json:"testRunHookStartedId,omitempty"`
	URL                  string `json:"url"`
	MediaType            string `json:"mediaType"`
}

type TestRunHookStarted struct {
	ID        string    `json:"id"`
	HookID    string    `json:"hookId"`
	Timestamp Timestamp `json:"timestamp"`
}

type TestRunHookFinished struct {
	TestRunHookStartedID string    `json:"testRunHookStartedId"`
	Status                string    `json:"status"`
	Message               string    `json:"message,omitempty"`
	Timestamp             Timestamp `json:"timestamp"`
}

// Envelope is a tagged union over every protocol message variant; exactly
// one field is populated.
type Envelope struct {
	Meta                *Meta                    `json:"meta,omitempty"`
	Source              *Source                  `json:"source,omitempty"`
	GherkinDocument      *GherkinDocumentEnvelope `json:"gherkinDocument,omitempty"`
	ParseError           *ParseError              `json:"parseError,omitempty"`
	Pickle               *model.Pickle            `json:"pickle,omitempty"`
	StepDefinition       *StepDefinitionEnvelope  `json:"stepDefinition,omitempty"`
	ParameterType        *ParameterTypeEnvelope   `json:"parameterType,omitempty"`
	Hook                 *HookEnvelope            `json:"hook,omitempty"`
	TestCase             *TestCase                `json:"testCase,omitempty"`
	TestRunStarted       *TestRunStarted          `json:"testRunStarted,omitempty"`
	TestCaseStarted      *TestCaseStarted         `json:"testCaseStarted,omitempty"`
	TestStepStarted      *TestStepStarted         `json:"testStepStarted,omitempty"`
	Attachment           *Attachment              `json:"attachment,omitempty"`
	ExternalAttachment   *ExternalAttachment      `json:"externalAttachment,omitempty"`
	TestStepFinished     *TestStepFinished        `json:"testStepFinished,omitempty"`
	TestCaseFinished     *TestCaseFinished        `json:"testCaseFinished,omitempty"`
	TestRunHookStarted   *TestRunHookStarted      `json:"testRunHookStarted,omitempty"`
	TestRunHookFinished  *TestRunHookFinished     `json:"testRunHookFinished,omitempty"`
	TestRunFinished      *TestRunFinished         `json:"testRunFinished,omitempty"`
}
