package runner

import (
	"context"
	"fmt"

	"github.com/tutormesh/tutormesh/core"
	"github.com/tutormesh/tutormesh/team"
)

// MembershipAction names a team membership transition.
type MembershipAction string

const (
	ActionHost      MembershipAction = "host"
	ActionJoin      MembershipAction = "join"
	ActionAssign    MembershipAction = "assign"
	ActionStart     MembershipAction = "start"
	ActionLeave     MembershipAction = "leave"
	ActionTerminate MembershipAction = "terminate"
)

// MembershipRequest is one membership transition request from a domain
// session. Which fields are read depends on Action.
type MembershipRequest struct {
	Action MembershipAction

	// HostID identifies the hosting session the transition targets.
	HostID string
	// SessionID identifies the requesting session; equal to HostID for
	// host-side transitions.
	SessionID string
	// Username is the learner behind the session (host and join).
	Username string

	// Name is the team session name (host only).
	Name string
	// Organization is the authored team structure (host only).
	Organization *core.TeamOrganization
	// Membership is the host's membership description (host only); a group
	// membership carries the bulk roster.
	Membership core.SessionMembership
	// SessionType marks how the hosting session is driven (host only).
	SessionType core.SessionType

	// RoleName is the requested team role (assign only).
	RoleName string

	// Reason and Detail describe a termination (terminate only).
	Reason string
	Detail string
}

// ManageTeamMembership dispatches one membership transition. A returned
// error is the negative acknowledgment for the requester; its message is the
// human-readable rejection reason.
func (r *Runner) ManageTeamMembership(ctx context.Context, req MembershipRequest) error {
	switch req.Action {
	case ActionHost:
		return r.teams.CreateTeamSession(ctx, req.HostID, req.Username, req.Name, req.Organization, req.Membership, req.SessionType)
	case ActionJoin:
		return r.teams.Join(ctx, req.HostID, req.SessionID, req.Username)
	case ActionAssign:
		return r.teams.Assign(ctx, req.HostID, req.SessionID, req.RoleName)
	case ActionStart:
		return r.teams.Start(ctx, req.HostID)
	case ActionLeave:
		return r.teams.Leave(ctx, req.HostID, req.SessionID)
	case ActionTerminate:
		reason := req.Reason
		if reason == "" {
			reason = team.ReasonCourseTerminated
		}
		return r.teams.Terminate(ctx, req.HostID, reason, req.Detail)
	default:
		return fmt.Errorf("unknown membership action %q", req.Action)
	}
}
