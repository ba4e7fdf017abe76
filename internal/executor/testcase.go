package executor

import (
	"github.com/moonrockz/moonspec/internal/emitter"
	"github.com/moonrockz/moonspec/internal/ids"
	"github.com/moonrockz/moonspec/internal/model"
	"github.com/moonrockz/moonspec/internal/registry"
)

// caseStepKind distinguishes the three kinds of entry a TestCase can
// carry, in TestCase order (spec §4.6 step 10).
type caseStepKind int

const (
	stepBeforeCaseHook caseStepKind = iota
	stepAfterCaseHook
	stepRegular
)

// caseStep is the executor's private bookkeeping record for one entry of
// a pickle's TestCase, built once (from the throwaway global registries)
// and replayed across every attempt. Its TestStepID is the identifier
// referenced by every TestStepStarted/Finished envelope for that entry,
// stable across attempts since the TestCase itself is emitted once.
type caseStep struct {
	TestStepID string
	Kind       caseStepKind
	PickleStep *model.PickleStep
}

// buildTestCase constructs the immutable TestCase envelope payload for
// one pickle plus the parallel caseStep bookkeeping list the executor
// replays every attempt. It is built once from the global (throwaway)
// registries — never executed — purely to mint stable TestStepIDs and
// describe the shape of the case for envelope consumers (spec §4.6).
func buildTestCase(counter *ids.Counter, pickle model.Pickle, hooks *registry.HookRegistry, steps *registry.StepRegistry) (emitter.TestCase, []caseStep) {
	tc := emitter.TestCase{ID: counter.Next("tc"), PickleID: pickle.ID}

	var bookkeeping []caseStep

	for _, h := range hooks.ByType(registry.BeforeTestCase) {
		id := counter.Next("tstep")
		tc.TestSteps = append(tc.TestSteps, emitter.TestStep{ID: id, HookID: h.ID})
		bookkeeping = append(bookkeeping, caseStep{TestStepID: id, Kind: stepBeforeCaseHook})
	}

	for i := range pickle.Steps {
		pstep := &pickle.Steps[i]

		id := counter.Next("tstep")

		var defIDs []string
		if match := steps.FindMatch(pstep.Text, pstep.Keyword); match.Matched {
			defIDs = []string{match.Def.ID}
		}

		tc.TestSteps = append(tc.TestSteps, emitter.TestStep{
			ID:                id,
			PickleStepID:      pstep.ID,
			StepDefinitionIDs: defIDs,
		})
		bookkeeping = append(bookkeeping, caseStep{TestStepID: id, Kind: stepRegular, PickleStep: pstep})
	}

	for _, h := range hooks.ByType(registry.AfterTestCase) {
		id := counter.Next("tstep")
		tc.TestSteps = append(tc.TestSteps, emitter.TestStep{ID: id, HookID: h.ID})
		bookkeeping = append(bookkeeping, caseStep{TestStepID: id, Kind: stepAfterCaseHook})
	}

	return tc, bookkeeping
}
