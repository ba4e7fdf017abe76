// Package compiler flattens cached Gherkin features into the flat pickle
// list the executor runs, per spec §4.2: background inheritance, Scenario
// Outline expansion over Examples tables, and Rule nesting.
package compiler

import (
	"strings"

	msgs "github.com/cucumber/messages-go/v12"

	"github.com/moonrockz/moonspec/internal/cache"
	"github.com/moonrockz/moonspec/internal/ids"
	"github.com/moonrockz/moonspec/internal/model"
)

// Compiler mints pickle/step IDs from a shared run-scoped counter so IDs
// stay unique across every feature compiled in one run.
type Compiler struct {
	ids *ids.Counter
}

func New(counter *ids.Counter) *Compiler {
	return &Compiler{ids: counter}
}

// CompileAll compiles every cached feature, in cache insertion order,
// children in declaration order, examples rows in declaration order.
func (c *Compiler) CompileAll(entries []cache.FeatureEntry) []model.Pickle {
	var out []model.Pickle

	for _, fe := range entries {
		if fe.Document == nil || fe.Document.Feature == nil {
			continue
		}

		out = append(out, c.compileFeature(fe.URI, fe.Document.Feature)...)
	}

	return out
}

func (c *Compiler) compileFeature(uri string, feature *msgs.GherkinDocument_Feature) []model.Pickle {
	featureTags := tagNames(feature.GetTags())

	var (
		featureBg []*msgs.GherkinDocument_Feature_Step
		pickles   []model.Pickle
	)

	for _, child := range feature.Children {
		if bg := child.GetBackground(); bg != nil {
			featureBg = bg.GetSteps()
			continue
		}

		if scenario := child.GetScenario(); scenario != nil {
			pickles = append(pickles, c.compileScenario(uri, feature.GetLanguage(), featureTags, featureBg, scenario)...)
			continue
		}

		if rule := getRule(child); rule != nil {
			pickles = append(pickles, c.compileRule(uri, feature.GetLanguage(), featureTags, featureBg, rule)...)
		}
	}

	return pickles
}

func (c *Compiler) compileRule(
	uri, lang string,
	featureTags []string,
	featureBg []*msgs.GherkinDocument_Feature_Step,
	rule *msgs.GherkinDocument_Feature_FeatureChild_Rule,
) []model.Pickle {
	ruleTags := tagNames(rule.GetTags())
	combined := append(append([]string{}, featureTags...), ruleTags...)

	var (
		ruleBg  []*msgs.GherkinDocument_Feature_Step
		pickles []model.Pickle
	)

	for _, rc := range rule.GetChildren() {
		if bg := rc.GetBackground(); bg != nil {
			ruleBg = bg.GetSteps()
			continue
		}

		if scenario := rc.GetScenario(); scenario != nil {
			bg := append(append([]*msgs.GherkinDocument_Feature_Step{}, featureBg...), ruleBg...)
			pickles = append(pickles, c.compileScenario(uri, lang, combined, bg, scenario)...)
		}
	}

	return pickles
}

func (c *Compiler) compileScenario(
	uri, lang string,
	inheritedTags []string,
	bgSteps []*msgs.GherkinDocument_Feature_Step,
	scenario *msgs.GherkinDocument_Feature_Scenario,
) []model.Pickle {
	scenarioTags := tagNames(scenario.GetTags())
	examples := scenario.GetExamples()

	if len(examples) == 0 {
		if len(bgSteps) == 0 && len(scenario.GetSteps()) == 0 {
			return nil
		}

		tags := append(append([]string{}, inheritedTags...), scenarioTags...)
		steps := c.compileSteps(bgSteps, scenario.GetSteps(), nil, nil)

		return []model.Pickle{{
			ID:         c.ids.Next("pickle"),
			URI:        uri,
			Name:       scenario.GetName(),
			Language:   lang,
			Steps:      steps,
			Tags:       tags,
			AstNodeIDs: []string{scenario.GetId()},
		}}
	}

	var pickles []model.Pickle

	for _, ex := range examples {
		exampleTags := tagNames(ex.GetTags())

		header := ex.GetTableHeader().GetCells()
		headerNames := make([]string, len(header))

		for i, h := range header {
			headerNames[i] = h.GetValue()
		}

		for _, row := range ex.GetTableBody() {
			values := make([]string, len(row.GetCells()))
			for i, cell := range row.GetCells() {
				values[i] = cell.GetValue()
			}

			tags := append(append(append([]string{}, inheritedTags...), scenarioTags...), exampleTags...)
			steps := c.compileSteps(bgSteps, scenario.GetSteps(), headerNames, values)
			name := outlineName(scenario.GetName(), headerNames, values)

			pickles = append(pickles, model.Pickle{
				ID:         c.ids.Next("pickle"),
				URI:        uri,
				Name:       name,
				Language:   lang,
				Steps:      steps,
				Tags:       tags,
				AstNodeIDs: []string{scenario.GetId(), row.GetId()},
			})
		}
	}

	return pickles
}

// compileSteps concatenates background then scenario steps into one flat
// list, substituting outline placeholders when headers/values are given,
// and resolves each step's type with conjunctions inheriting from the
// previous resolved step. A conjunction with no prior step resolves to
// Unknown (see DESIGN.md).
func (c *Compiler) compileSteps(
	bgSteps, scenarioSteps []*msgs.GherkinDocument_Feature_Step,
	headers, values []string,
) []model.PickleStep {
	var out []model.PickleStep

	prev := model.StepUnknown

	emit := func(step *msgs.GherkinDocument_Feature_Step) {
		text := step.GetText()
		if headers != nil {
			text = substitute(text, headers, values)
		}

		stype, isConjunction := classify(step.GetKeyword())

		resolved := stype
		if isConjunction {
			resolved = prev
		}

		prev = resolved

		out = append(out, model.PickleStep{
			ID:         c.ids.Next("step"),
			Text:       text,
			Type:       resolved,
			Keyword:    step.GetKeyword(),
			Argument:   buildArgument(step, headers, values),
			AstNodeIDs: []string{step.GetId()},
			Line:       step.GetLocation().GetLine(),
		})
	}

	for _, s := range bgSteps {
		emit(s)
	}

	for _, s := range scenarioSteps {
		emit(s)
	}

	return out
}

func classify(keyword string) (model.StepType, bool) {
	switch strings.ToLower(strings.TrimSpace(keyword)) {
	case "given":
		return model.StepContext, false
	case "when":
		return model.StepAction, false
	case "then":
		return model.StepOutcome, false
	case "and", "but", "*":
		return model.StepUnknown, true
	default:
		return model.StepUnknown, false
	}
}

func buildArgument(step *msgs.GherkinDocument_Feature_Step, headers, values []string) *model.Argument {
	table := step.GetDataTable()
	doc := step.GetDocString()

	if table != nil && len(table.GetRows()) > 0 {
		rows := make([][]string, len(table.GetRows()))
		for i, row := range table.GetRows() {
			cells := make([]string, len(row.GetCells()))
			for j, cell := range row.GetCells() {
				cells[j] = substituteMaybe(cell.GetValue(), headers, values)
			}
			rows[i] = cells
		}

		return &model.Argument{DataTable: &model.DataTable{Rows: rows}}
	}

	if doc != nil {
		return &model.Argument{DocString: &model.DocString{
			ContentType: doc.GetContentType(),
			Content:     substituteMaybe(doc.GetContent(), headers, values),
		}}
	}

	return nil
}

func substituteMaybe(text string, headers, values []string) string {
	if headers == nil {
		return text
	}

	return substitute(text, headers, values)
}

func substitute(text string, headers, values []string) string {
	for i, h := range headers {
		text = strings.ReplaceAll(text, "<"+h+">", values[i])
	}

	return text
}

func outlineName(name string, headers, values []string) string {
	parts := make([]string, len(headers))
	for i := range headers {
		parts[i] = headers[i] + "=" + values[i]
	}

	return name + " (" + strings.Join(parts, ", ") + ")"
}

func tagNames(tags []*msgs.GherkinDocument_Feature_Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.GetName())
	}

	return out
}

// getRule best-effort unwraps a Rule FeatureChild. messages-go/v12, the
// version pinned by the teacher, models Rule nesting as a FeatureChild
// oneof the same way Background/Scenario are modeled; features with no
// Rule children simply never populate it.
func getRule(child *msgs.GherkinDocument_Feature_FeatureChild) *msgs.GherkinDocument_Feature_FeatureChild_Rule {
	return child.GetRule()
}
