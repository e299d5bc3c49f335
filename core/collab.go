package core

import "context"

// SessionRegistry owns the knowledge sessions for a deployment, keyed by
// host session id. Implementations must be internally synchronized;
// concurrent membership transitions for the same host are additionally
// serialized by the callers performing them.
type SessionRegistry interface {
	// KnowledgeSession returns the session hosted by hostID, if any.
	KnowledgeSession(hostID string) (*KnowledgeSession, bool)

	// Put registers a session under its host id, replacing any previous one.
	Put(session *KnowledgeSession)

	// Remove deletes the session hosted by hostID and clears any joiner
	// bookkeeping that pointed at it.
	Remove(hostID string)

	// JoinedMembers returns the members currently joined to hostID's session
	// in join order, empty if none or the session is unknown.
	JoinedMembers(hostID string) []*SessionMember

	// IsJoiner reports whether sessionID is currently joined to some other
	// host's session, returning that host id when so.
	IsJoiner(sessionID string) (string, bool)

	// TeamMemberFor returns the team-organization role assigned to the given
	// domain session, or nil if the session is unknown or unassigned.
	TeamMemberFor(sessionID string) *TeamMember

	// Snapshots returns immutable views of every registered session.
	Snapshots() []KnowledgeSessionSnapshot
}

// PresentationSurface executes activities against one target session and
// exposes the session-lifecycle operations the executor and membership
// machinery need. One surface exists per participant session; implementations
// talk to the actual presentation layer (tutor UI, training application).
type PresentationSurface interface {
	// ExecuteActivity runs one activity to completion on this session's
	// presentation layer, reporting failure via error.
	ExecuteActivity(ctx context.Context, activity Activity) error

	// StartTeamKnowledgeSession begins scenario execution for this session.
	// The host's surface is started before any joiner's.
	StartTeamKnowledgeSession(ctx context.Context) error

	// Terminate forcibly ends this session. Reason is the generic
	// human-readable message shown to the participant; detail carries the
	// underlying cause for supplementary display.
	Terminate(ctx context.Context, reason, detail string) error

	// RequestScenarioReset asks the scenario runtime to restart from its
	// initial state.
	RequestScenarioReset(ctx context.Context) error
}

// SurfaceResolver maps a domain session id to its presentation surface.
type SurfaceResolver interface {
	SurfaceFor(sessionID string) (PresentationSurface, bool)
}

// MonitorEndpoint is a non-learner observer (instructor dashboard, game
// master station) attached to a session. Zero or more endpoints may be
// attached to any session.
type MonitorEndpoint interface {
	// SendControllerMessage delivers an isolated controller-bound activity copy.
	SendControllerMessage(ctx context.Context, msg ControllerMessage) error

	// RequestAuthorization forwards strategies pending human approval.
	RequestAuthorization(ctx context.Context, req AuthorizeStrategiesRequest) error
}

// MonitorRegistry resolves the monitor endpoints currently attached to a
// session.
type MonitorRegistry interface {
	MonitorsFor(sessionID string) []MonitorEndpoint
}

// ContentRequest describes the session/team context sent to an external
// content provider when an activity's content must be produced from session
// state.
type ContentRequest struct {
	SessionID   string         `json:"sessionId"`
	Username    string         `json:"username,omitempty"`
	TeamRole    string         `json:"teamRole,omitempty"`
	ContentType ContentType    `json:"contentType"`
	State       map[string]any `json:"state,omitempty"`
}

// ContentProvider produces replacement activity content from session state.
// Fetch is synchronous and blocks only the worker executing the one activity
// for the one participant; callers apply timeouts at the transport boundary.
type ContentProvider interface {
	Fetch(ctx context.Context, req ContentRequest) (string, error)
}

// TriggerEvaluator receives applied-strategy notifications on behalf of the
// host session's scenario trigger graph.
type TriggerEvaluator interface {
	StrategyApplied(ctx context.Context, hostID string, event StrategyAppliedEvent)
}

// RosterPublisher receives the roster snapshot emitted after any membership
// change, for delivery to learner/LMS/UI consumers.
type RosterPublisher interface {
	PublishRoster(ctx context.Context, reply KnowledgeSessionsReply)
}
