package strategy

import (
	"github.com/tutormesh/tutormesh/core"
	"github.com/tutormesh/tutormesh/logging"
)

// Resolver maps pedagogical-intent requests to the authored strategies they
// refer to. Resolution is deterministic: reasons are visited in request
// order, intents in authored order, and a given strategy name is attached to
// at most one reason's result set per batch, claimed by the first intent
// that references it.
type Resolver struct {
	logger logging.Logger
}

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// Logger records resolution warnings (unknown or missing strategy
	// names). Defaults to NoOpLogger.
	Logger logging.Logger
}

// NewResolver constructs a Resolver with optional overrides.
func NewResolver(optFns ...func(o *ResolverOptions)) *Resolver {
	opts := ResolverOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Resolver{logger: core.LoggerOrNoOp(opts.Logger)}
}

// Resolve maps each reason's intents to concrete StrategyToApply values
// against the catalog. The evaluator identity is stamped onto every resolved
// strategy.
//
// Rules:
//   - DoNothing intents are skipped.
//   - Intents with an empty strategy name are logged and skipped.
//   - A strategy name unknown to the catalog is dropped with a warning.
//   - The first intent referencing a name claims it for its reason; later
//     intents naming the same strategy are silently skipped.
//   - Branch adaptations always resolve (wrapped in a synthetic single
//     activity strategy) and are never deduplicated.
//
// An empty or nil request yields an empty result. Reasons that resolve to no
// strategies are omitted from the output.
func (r *Resolver) Resolve(req *core.PedagogicalRequest, catalog *Catalog, evaluator string) []core.ResolvedStrategies {
	if req.IsEmpty() {
		return nil
	}

	consumed := make(map[string]struct{})
	var batch []core.ResolvedStrategies

	for _, reasoned := range req.Requests {
		resolved := core.ResolvedStrategies{Reason: reasoned.Reason}

		for _, intent := range reasoned.Intents {
			switch it := intent.(type) {
			case core.DoNothingIntent:
				continue

			case core.BranchAdaptationIntent:
				// Branch adaptations drive course flow, not feedback; they
				// bypass the catalog and the dedup set entirely.
				resolved.Strategies = append(resolved.Strategies, core.StrategyToApply{
					Strategy: &core.Strategy{
						Name:       branchStrategyName(it.Target),
						Activities: []core.Activity{core.BranchAdaptationActivity{Target: it.Target}},
					},
					Reason:    reasoned.Reason,
					Evaluator: evaluator,
					TaskIDs:   it.TaskIDs,
				})

			case core.InstructionalInterventionIntent:
				r.resolveNamed(catalog, &resolved, consumed, it.StrategyName, reasoned.Reason, evaluator, it.TaskIDs)
			case core.MidLessonMediaIntent:
				r.resolveNamed(catalog, &resolved, consumed, it.StrategyName, reasoned.Reason, evaluator, it.TaskIDs)
			case core.ScenarioAdaptationIntent:
				r.resolveNamed(catalog, &resolved, consumed, it.StrategyName, reasoned.Reason, evaluator, it.TaskIDs)
			case core.PerformanceAssessmentIntent:
				r.resolveNamed(catalog, &resolved, consumed, it.StrategyName, reasoned.Reason, evaluator, it.TaskIDs)
			}
		}

		if len(resolved.Strategies) > 0 {
			batch = append(batch, resolved)
		}
	}

	return batch
}

// resolveNamed resolves one named intent against the catalog, honoring the
// batch-wide dedup set.
func (r *Resolver) resolveNamed(
	catalog *Catalog,
	resolved *core.ResolvedStrategies,
	consumed map[string]struct{},
	name, reason, evaluator string,
	taskIDs []string,
) {
	if name == "" {
		r.logger.Warn("intent without a strategy name under reason %q, skipping", reason)
		return
	}
	if _, dup := consumed[name]; dup {
		return
	}
	authored, ok := catalog.Lookup(name)
	if !ok {
		r.logger.Warn("strategy %q referenced under reason %q not found in catalog, skipping", name, reason)
		return
	}
	consumed[name] = struct{}{}
	resolved.Strategies = append(resolved.Strategies, core.StrategyToApply{
		Strategy:  authored,
		Reason:    reason,
		Evaluator: evaluator,
		TaskIDs:   taskIDs,
	})
}

func branchStrategyName(target string) string {
	return "branch:" + target
}
