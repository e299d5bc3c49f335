// Package strategy resolves abstract pedagogical intents against the
// authored strategy catalog of the active scenario.
//
// Resolution is synchronous and cheap: it maps each reason's intents to
// concrete StrategyToApply values, deduplicating so a named strategy is
// applied at most once per batch (branch adaptations excepted, since they
// drive scenario branching rather than feedback). Execution of the resolved
// strategies is the executor package's concern.
//
// The package also loads authored catalogs from YAML documents produced by
// the authoring pipeline.
package strategy
