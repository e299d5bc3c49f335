package core

// Strategy is an authored, named, ordered list of activities. Strategies are
// created at scenario-load time and are read-only to this core; optional
// stress and difficulty ratings describe the expected effect on the learner
// and travel with the applied-strategy notification.
type Strategy struct {
	Name string
	// Stress and Difficulty are optional authored ratings; nil means the
	// author did not rate the strategy.
	Stress     *float64
	Difficulty *float64
	// ResetScenario requests a scenario reset on the host after every
	// activity in the strategy has completed.
	ResetScenario bool
	Activities    []Activity
}

// Clone returns a deep copy of the strategy with cloned activities. Use it
// whenever a strategy must be mutated (e.g. the controller-bound minimal
// copy); the authored value itself is shared and immutable.
func (s *Strategy) Clone() *Strategy {
	if s == nil {
		return nil
	}
	c := *s
	if s.Stress != nil {
		v := *s.Stress
		c.Stress = &v
	}
	if s.Difficulty != nil {
		v := *s.Difficulty
		c.Difficulty = &v
	}
	c.Activities = make([]Activity, len(s.Activities))
	for i, a := range s.Activities {
		c.Activities[i] = a.Clone()
	}
	return &c
}

// StrategySet is a raw, un-resolved group of strategies applied together,
// used on the learner-action path where no catalog resolution is required.
type StrategySet struct {
	// Reason is the free-text trigger description (e.g. "Learner Action").
	Reason     string
	Strategies []*Strategy
}

// StrategyToApply pairs a resolved strategy with the reason that triggered
// it, the identity that authorized it, and the task/concept identifiers it
// was applied to. Produced by the resolver, consumed by the fan-out
// executor.
type StrategyToApply struct {
	Strategy *Strategy
	// Reason is the trigger description the strategy was resolved under.
	Reason string
	// Evaluator identifies who authorized the application: a username, or
	// EvaluatorAuto when the system applied it without human review.
	Evaluator string
	// TaskIDs are the task/concept identifiers the strategy addresses.
	TaskIDs []string
}

// EvaluatorAuto is the evaluator identity recorded when a strategy is
// applied automatically rather than authorized by a human.
const EvaluatorAuto = "auto"

// ReasonedIntents groups the abstract intents requested under one trigger
// reason. Order within Intents is the authored request order.
type ReasonedIntents struct {
	Reason  string
	Intents []Intent
}

// PedagogicalRequest is an ordered mapping from trigger reason to the
// abstract intents requested under that reason. Slice order preserves the
// request's natural reason order, which resolution depends on.
type PedagogicalRequest struct {
	Requests []ReasonedIntents
}

// IsEmpty reports whether the request contains no intents at all.
func (r *PedagogicalRequest) IsEmpty() bool {
	if r == nil {
		return true
	}
	for _, ri := range r.Requests {
		if len(ri.Intents) > 0 {
			return false
		}
	}
	return true
}

// ResolvedStrategies is the per-reason output of catalog resolution: the
// ordered strategies to apply for one trigger reason.
type ResolvedStrategies struct {
	Reason     string
	Strategies []StrategyToApply
}
