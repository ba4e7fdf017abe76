package moonspec

import (
	msgs "github.com/cucumber/messages-go/v12"

	"github.com/moonrockz/moonspec/internal/cache"
	"github.com/moonrockz/moonspec/internal/emitter"
)

// FeatureSource names one feature to load: raw text, a file path, or an
// already-parsed document (spec §6.3).
type FeatureSource = cache.FeatureSource

func TextFeature(uri, content string) FeatureSource { return cache.NewTextSource(uri, content) }
func FileFeature(path string) FeatureSource          { return cache.NewFileSource(path) }
func ParsedFeature(uri string, doc *msgs.GherkinDocument) FeatureSource {
	return cache.NewParsedSource(uri, doc)
}

// Sink receives the run's full ordered envelope stream (spec §4.6).
type Sink = emitter.Sink

// Options configures one Run call (spec §6.3).
type Options struct {
	Features []FeatureSource

	TagExpression string
	ScenarioNames []string

	Retries int
	DryRun  bool

	Parallel      bool
	MaxConcurrent int

	// SkipTags names the tags that cause a pickle to be skipped outright
	// without constructing a world. Defaults to {"@skip", "@ignore"}.
	SkipTags []string

	Sinks []Sink
}

var defaultSkipTags = []string{"@skip", "@ignore"}

func (o Options) skipTags() []string {
	if o.SkipTags != nil {
		return o.SkipTags
	}

	return defaultSkipTags
}
