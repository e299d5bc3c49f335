package core

import (
	"time"

	"github.com/google/uuid"
)

// NewID generates a new unique identifier for events and batches.
func NewID() string { return uuid.NewString() }

// StrategyAppliedEvent notifies the host session's trigger evaluator that a
// strategy finished executing across all participants, so scenario triggers
// can react (e.g. advance on remediation delivered). Treated as immutable
// after emission.
type StrategyAppliedEvent struct {
	ID string `json:"id"`
	// StrategyName is the authored name of the applied strategy.
	StrategyName string `json:"strategy_name"`
	// Stress / Difficulty carry the strategy's authored ratings, if any.
	Stress     *float64 `json:"stress,omitempty"`
	Difficulty *float64 `json:"difficulty,omitempty"`
	// TaskIDs are the task/concept identifiers the strategy was applied to.
	TaskIDs   []string  `json:"task_ids,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Evaluator string    `json:"evaluator,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewStrategyAppliedEvent builds the applied notification for one resolved
// strategy.
func NewStrategyAppliedEvent(sta StrategyToApply) StrategyAppliedEvent {
	return StrategyAppliedEvent{
		ID:           NewID(),
		StrategyName: sta.Strategy.Name,
		Stress:       sta.Strategy.Stress,
		Difficulty:   sta.Strategy.Difficulty,
		TaskIDs:      sta.TaskIDs,
		Reason:       sta.Reason,
		Evaluator:    sta.Evaluator,
		Timestamp:    time.Now().UTC(),
	}
}

// ControllerMessage is the isolated copy of a controller-bound activity
// routed to monitor endpoints instead of the learner-facing path.
type ControllerMessage struct {
	ID string `json:"id"`
	// SessionID identifies the participant session the message concerns.
	SessionID string `json:"session_id"`
	Reason    string `json:"reason,omitempty"`
	// Message is the controller-bound feedback text, if any.
	Message string `json:"message,omitempty"`
	// AudioURL is the fully qualified content-server address of the audio
	// asset, if the presentation is audio.
	AudioURL  string    `json:"audio_url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AuthorizeStrategiesRequest asks an attached monitor (or the controlling
// gateway in externally-controlled deployments) to approve pending
// strategies before they are applied.
type AuthorizeStrategiesRequest struct {
	ID     string `json:"id"`
	HostID string `json:"host_id"`
	// Reason is the trigger description the strategies were resolved under.
	Reason        string   `json:"reason"`
	StrategyNames []string `json:"strategy_names"`
	// Evaluator identifies who will be recorded as authorizing on approval.
	Evaluator string    `json:"evaluator,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// KnowledgeSessionsReply is the roster snapshot published to learner/LMS/UI
// consumers after any membership change.
type KnowledgeSessionsReply struct {
	Sessions  []KnowledgeSessionSnapshot `json:"sessions"`
	Timestamp time.Time                  `json:"timestamp"`
}
