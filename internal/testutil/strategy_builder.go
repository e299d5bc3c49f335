package testutil

import (
	"time"

	"github.com/tutormesh/tutormesh/core"
)

// StrategyBuilder provides a fluent helper for constructing strategies in
// tests. Example:
//
//	s := NewStrategyBuilder("remediate-overload").Feedback("slow down").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type StrategyBuilder struct {
	name       string
	stress     *float64
	difficulty *float64
	reset      bool
	activities []core.Activity
}

// NewStrategyBuilder creates a builder for a strategy with the given name.
func NewStrategyBuilder(name string) *StrategyBuilder {
	return &StrategyBuilder{name: name}
}

// Stress sets the authored stress rating (chainable).
func (b *StrategyBuilder) Stress(v float64) *StrategyBuilder { b.stress = &v; return b }

// Difficulty sets the authored difficulty rating (chainable).
func (b *StrategyBuilder) Difficulty(v float64) *StrategyBuilder { b.difficulty = &v; return b }

// ResetScenario marks the strategy as requesting a scenario reset (chainable).
func (b *StrategyBuilder) ResetScenario() *StrategyBuilder { b.reset = true; return b }

// Feedback appends a learner-facing feedback activity (chainable).
func (b *StrategyBuilder) Feedback(message string) *StrategyBuilder {
	b.activities = append(b.activities, core.FeedbackActivity{Message: message})
	return b
}

// ControllerFeedback appends a controller-bound feedback activity (chainable).
func (b *StrategyBuilder) ControllerFeedback(message string) *StrategyBuilder {
	b.activities = append(b.activities, core.FeedbackActivity{Message: message, DeliverToController: true})
	return b
}

// SessionStateFeedback appends a feedback activity whose content is produced
// from session state (chainable).
func (b *StrategyBuilder) SessionStateFeedback(placeholder string) *StrategyBuilder {
	b.activities = append(b.activities, core.FeedbackActivity{Message: placeholder, RequestUsingSessionState: true})
	return b
}

// DelayedFeedback appends a feedback activity with a post-activity delay
// (chainable).
func (b *StrategyBuilder) DelayedFeedback(message string, delay time.Duration) *StrategyBuilder {
	b.activities = append(b.activities, core.FeedbackActivity{Message: message, PostDelay: delay})
	return b
}

// Media appends a mid-lesson media activity with the given items (chainable).
func (b *StrategyBuilder) Media(items ...core.MediaItem) *StrategyBuilder {
	b.activities = append(b.activities, core.MidLessonMediaActivity{Items: items})
	return b
}

// Activity appends any activity (chainable).
func (b *StrategyBuilder) Activity(a core.Activity) *StrategyBuilder {
	b.activities = append(b.activities, a)
	return b
}

// Build assembles the strategy.
func (b *StrategyBuilder) Build() *core.Strategy {
	return &core.Strategy{
		Name:          b.name,
		Stress:        b.stress,
		Difficulty:    b.difficulty,
		ResetScenario: b.reset,
		Activities:    b.activities,
	}
}
