package filter

import "github.com/moonrockz/moonspec/internal/model"

// Filter selects pickles by tag expression AND scenario-name list, per
// spec §4.5. An empty scenario-name list matches every name.
type Filter struct {
	tagExpr       TagExpr
	scenarioNames map[string]bool
}

// New builds a Filter from a tag-expression string and an exact-match
// scenario-name list.
func New(tagExpression string, scenarioNames []string) (*Filter, error) {
	expr, err := ParseTagExpression(tagExpression)
	if err != nil {
		return nil, err
	}

	var names map[string]bool
	if len(scenarioNames) > 0 {
		names = make(map[string]bool, len(scenarioNames))
		for _, n := range scenarioNames {
			names[n] = true
		}
	}

	return &Filter{tagExpr: expr, scenarioNames: names}, nil
}

// Apply returns the subset of pickles matching both filters, preserving
// input order.
func (f *Filter) Apply(pickles []model.Pickle) []model.Pickle {
	out := make([]model.Pickle, 0, len(pickles))

	for _, p := range pickles {
		if !f.matchesTags(p) {
			continue
		}

		if f.scenarioNames != nil && !f.scenarioNames[p.Name] {
			continue
		}

		out = append(out, p)
	}

	return out
}

func (f *Filter) matchesTags(p model.Pickle) bool {
	tags := make(map[string]bool, len(p.Tags))
	for _, t := range p.Tags {
		tags[t] = true
	}

	return f.tagExpr.Matches(tags)
}
