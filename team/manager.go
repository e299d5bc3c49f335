package team

import (
	"context"
	"fmt"
	"time"

	"github.com/tutormesh/tutormesh/core"
	"github.com/tutormesh/tutormesh/logging"
	"github.com/tutormesh/tutormesh/metrics"
)

// Registry is the session registry surface the manager mutates through. It
// extends the read-side core.SessionRegistry with the roster mutations the
// membership transitions need.
type Registry interface {
	core.SessionRegistry

	// AddJoiner appends a member to hostID's roster, reporting whether the
	// host session exists.
	AddJoiner(hostID string, member *core.SessionMember) bool

	// RemoveJoiner removes a member from hostID's roster, reporting whether
	// it was present.
	RemoveJoiner(hostID, sessionID string) bool
}

// Options configures a Manager using the functional options pattern.
type Options struct {
	// Registry owns the knowledge sessions. Required.
	Registry Registry

	// Surfaces maps participant session ids to presentation surfaces, used
	// for start and terminate. Required.
	Surfaces core.SurfaceResolver

	// Publisher receives a roster snapshot after every successful
	// membership mutation. Optional.
	Publisher core.RosterPublisher

	// Logger records transitions. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Manager implements the team membership state machine. Transitions for the
// same host session must be serialized by the caller; the backing registry
// is internally synchronized but the manager's check-then-mutate sequences
// assume no concurrent transition races on one host.
type Manager struct {
	registry  Registry
	surfaces  core.SurfaceResolver
	publisher core.RosterPublisher
	logger    logging.Logger
}

// NewManager constructs a Manager with the given collaborators.
func NewManager(optFns ...func(o *Options)) *Manager {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Manager{
		registry:  opts.Registry,
		surfaces:  opts.Surfaces,
		publisher: opts.Publisher,
		logger:    core.LoggerOrNoOp(opts.Logger),
	}
}

// CreateTeamSession transitions a session from unhosted to hosted. The host
// supplies either a pre-populated group roster (bulk assignment driven by an
// external controller) or an individual membership with organic joins to
// follow.
func (m *Manager) CreateTeamSession(
	ctx context.Context,
	hostID, username, name string,
	org *core.TeamOrganization,
	membership core.SessionMembership,
	sessionType core.SessionType,
) error {
	const action = "host"

	if _, exists := m.registry.KnowledgeSession(hostID); exists {
		return m.fail(action, hostID, hostID, fmt.Sprintf("session %s already hosts a team session", hostID))
	}
	if otherHost, joined := m.registry.IsJoiner(hostID); joined {
		return m.fail(action, hostID, hostID, fmt.Sprintf("session %s has already joined the session hosted by %s", hostID, otherHost))
	}

	if membership == nil {
		membership = core.IndividualMembership{}
	}
	host := &core.SessionMember{SessionID: hostID, Username: username, Membership: membership}

	ks := core.NewKnowledgeSession(name, host, org, sessionType)

	// A group roster assigns the host's role up front; joiners pick theirs
	// up as they arrive.
	if group, ok := membership.(core.GroupMembership); ok {
		if role, err := m.rosterRole(ks, group, username); err != nil {
			return m.fail(action, hostID, hostID, err.Error())
		} else if role != nil {
			host.Assigned = role
		}
	}

	m.registry.Put(ks)
	m.logger.Info("team session %q hosted by %s (%s)", name, username, hostID)
	metrics.MembershipTransitions.WithLabelValues(action, "ok").Inc()
	m.publish(ctx)

	return nil
}

// Join adds a learner's session to a host's roster. Joining is allowed only
// while the session has not started.
func (m *Manager) Join(ctx context.Context, hostID, sessionID, username string) error {
	const action = "join"

	ks, ok := m.registry.KnowledgeSession(hostID)
	if !ok {
		return m.fail(action, hostID, sessionID, fmt.Sprintf("no team session hosted by %s", hostID))
	}
	if ks.Running() {
		return m.fail(action, hostID, sessionID, ReasonSessionRunning)
	}
	if _, joined := m.registry.IsJoiner(sessionID); joined {
		return m.fail(action, hostID, sessionID, fmt.Sprintf("session %s has already joined a team session", sessionID))
	}
	if _, hosts := m.registry.KnowledgeSession(sessionID); hosts {
		return m.fail(action, hostID, sessionID, fmt.Sprintf("session %s hosts its own team session", sessionID))
	}
	if ks.Member(sessionID) != nil {
		return m.fail(action, hostID, sessionID, fmt.Sprintf("session %s has already joined", sessionID))
	}

	member := &core.SessionMember{SessionID: sessionID, Username: username, Membership: core.IndividualMembership{}}

	// Under a group roster the member's role was decided at hosting time.
	if group, ok := ks.Host.Membership.(core.GroupMembership); ok {
		role, err := m.rosterRole(ks, group, username)
		if err != nil {
			return m.fail(action, hostID, sessionID, err.Error())
		}
		member.Assigned = role
	}

	if !m.registry.AddJoiner(hostID, member) {
		return m.fail(action, hostID, sessionID, fmt.Sprintf("no team session hosted by %s", hostID))
	}

	m.logger.Info("membership %s completed host_id=%s session_id=%s", action, hostID, sessionID)
	metrics.MembershipTransitions.WithLabelValues(action, "ok").Inc()
	m.publish(ctx)

	return nil
}

// Assign binds a joined-but-unassigned member (or the host) to a team
// organization role. Allowed only while the session has not started.
func (m *Manager) Assign(ctx context.Context, hostID, sessionID, roleName string) error {
	const action = "assign"

	ks, ok := m.registry.KnowledgeSession(hostID)
	if !ok {
		return m.fail(action, hostID, sessionID, fmt.Sprintf("no team session hosted by %s", hostID))
	}
	if ks.Running() {
		return m.fail(action, hostID, sessionID, ReasonSessionRunning)
	}

	member := ks.Host
	if sessionID != hostID {
		member = ks.Member(sessionID)
		if member == nil {
			return m.fail(action, hostID, sessionID, fmt.Sprintf("session %s has not joined the team session", sessionID))
		}
	}

	role := ks.Organization.FindRole(roleName)
	if role == nil {
		return m.fail(action, hostID, sessionID, fmt.Sprintf("unknown team role %q", roleName))
	}
	if role.Team {
		// Assigning to a sub-team is allowed; the scenario treats the member
		// as covering every leaf beneath it.
		m.logger.Debug("assigning %s to sub-team role %q", sessionID, roleName)
	}
	if holder := m.roleHolder(ks, role); holder != nil && holder.SessionID != sessionID {
		return m.fail(action, hostID, sessionID, fmt.Sprintf("team role %q is already assigned to %s", roleName, holder.Username))
	}

	member.Assigned = role

	m.logger.Info("membership %s completed host_id=%s session_id=%s", action, hostID, sessionID)
	metrics.MembershipTransitions.WithLabelValues(action, "ok").Inc()
	m.publish(ctx)

	return nil
}

// Start transitions the session to running. It is permitted only when every
// joined member (and the host, when the organization requires a host role)
// holds a team-member assignment. The host's surface starts first, then
// every joiner's in join order.
func (m *Manager) Start(ctx context.Context, hostID string) error {
	const action = "start"

	ks, ok := m.registry.KnowledgeSession(hostID)
	if !ok {
		return m.fail(action, hostID, hostID, fmt.Sprintf("no team session hosted by %s", hostID))
	}
	if ks.Running() {
		return m.fail(action, hostID, hostID, ReasonSessionRunning)
	}
	if missing := ks.Unassigned(); len(missing) > 0 {
		m.logger.Warn("membership %s rejected host_id=%s unassigned=%v: %s", action, hostID, missing, ReasonAllMembersAssigned)
		metrics.MembershipTransitions.WithLabelValues(action, "rejected").Inc()
		return reject(action, ReasonAllMembersAssigned)
	}

	ks.SetRunning(true)

	// Host first: it owns logging and session bootstrapping the other
	// members depend on.
	if err := m.startSurface(ctx, hostID); err != nil {
		ks.SetRunning(false)
		return m.fail(action, hostID, hostID, fmt.Sprintf("host start failed: %v", err))
	}
	for _, member := range ks.Members() {
		if err := m.startSurface(ctx, member.SessionID); err != nil {
			return m.fail(action, hostID, member.SessionID, fmt.Sprintf("joiner start failed: %v", err))
		}
	}

	m.logger.Info("membership %s completed host_id=%s session_id=%s", action, hostID, hostID)
	metrics.MembershipTransitions.WithLabelValues(action, "ok").Inc()
	m.publish(ctx)

	return nil
}

// Leave removes a joined member from the roster. A host leaving terminates
// the whole session.
func (m *Manager) Leave(ctx context.Context, hostID, sessionID string) error {
	const action = "leave"

	if sessionID == hostID {
		return m.Terminate(ctx, hostID, ReasonCourseTerminated, "the host left the team session")
	}

	if !m.registry.RemoveJoiner(hostID, sessionID) {
		return m.fail(action, hostID, sessionID, fmt.Sprintf("session %s is not a member of the session hosted by %s", sessionID, hostID))
	}

	m.logger.Info("membership %s completed host_id=%s session_id=%s", action, hostID, sessionID)
	metrics.MembershipTransitions.WithLabelValues(action, "ok").Inc()
	m.publish(ctx)

	return nil
}

// Terminate forcibly ends the session: every joiner is notified and
// independently terminated with the same human-readable reason, then the
// host, then the session is removed from the registry. Surface failures are
// logged but do not stop the cascade.
func (m *Manager) Terminate(ctx context.Context, hostID, reason, detail string) error {
	const action = "terminate"

	ks, ok := m.registry.KnowledgeSession(hostID)
	if !ok {
		return m.fail(action, hostID, hostID, fmt.Sprintf("no team session hosted by %s", hostID))
	}

	for _, member := range ks.Members() {
		if surface, ok := m.surfaces.SurfaceFor(member.SessionID); ok {
			if err := surface.Terminate(ctx, reason, detail); err != nil {
				m.logger.Error("terminating joiner %s: %v", member.SessionID, err)
			}
		}
	}
	if surface, ok := m.surfaces.SurfaceFor(hostID); ok {
		if err := surface.Terminate(ctx, reason, detail); err != nil {
			m.logger.Error("terminating host %s: %v", hostID, err)
		}
	}

	m.registry.Remove(hostID)

	m.logger.Info("membership %s completed host_id=%s session_id=%s", action, hostID, hostID)
	metrics.MembershipTransitions.WithLabelValues(action, "ok").Inc()
	m.publish(ctx)

	return nil
}

// rosterRole resolves a username's role from a bulk group roster. A user
// absent from the roster gets no role (assignable later); a roster entry
// naming an unknown role is an error.
func (m *Manager) rosterRole(ks *core.KnowledgeSession, group core.GroupMembership, username string) (*core.TeamMember, error) {
	for _, entry := range group.Roster {
		if entry.Username != username {
			continue
		}
		role := ks.Organization.FindRole(entry.RoleName)
		if role == nil {
			return nil, fmt.Errorf("group roster assigns %s to unknown team role %q", username, entry.RoleName)
		}
		return role, nil
	}
	return nil, nil
}

// roleHolder returns the participant currently assigned the role, or nil.
func (m *Manager) roleHolder(ks *core.KnowledgeSession, role *core.TeamMember) *core.SessionMember {
	if ks.Host.Assigned == role {
		return ks.Host
	}
	for _, member := range ks.Members() {
		if member.Assigned == role {
			return member
		}
	}
	return nil
}

func (m *Manager) startSurface(ctx context.Context, sessionID string) error {
	surface, ok := m.surfaces.SurfaceFor(sessionID)
	if !ok {
		return fmt.Errorf("no presentation surface for session %s", sessionID)
	}
	return surface.StartTeamKnowledgeSession(ctx)
}

// fail records a rejected transition and returns the negative
// acknowledgment for the requester.
func (m *Manager) fail(action, hostID, sessionID, reason string) error {
	err := reject(action, reason)
	m.logger.Warn("membership %s rejected host_id=%s session_id=%s: %s", action, hostID, sessionID, reason)
	metrics.MembershipTransitions.WithLabelValues(action, "rejected").Inc()
	return err
}

func (m *Manager) publish(ctx context.Context) {
	if m.publisher == nil {
		return
	}
	m.publisher.PublishRoster(ctx, core.KnowledgeSessionsReply{
		Sessions:  m.registry.Snapshots(),
		Timestamp: time.Now().UTC(),
	})
}
