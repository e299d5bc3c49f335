package testutil

import (
	"github.com/tutormesh/tutormesh/core"
)

// TeamSessionBuilder provides a fluent helper for constructing hosted
// knowledge sessions in tests. Example:
//
//	ks := NewTeamSessionBuilder("host-1").
//		Roles("driver", "observer").
//		HostRole("driver").
//		Joiner("sess-2", "bob", "observer").
//		Build()
//
// Chain only the parts you need; sensible defaults are applied.
type TeamSessionBuilder struct {
	hostID       string
	hostUsername string
	name         string
	sessionType  core.SessionType
	roles        []string
	hostRole     string
	hostReq      bool
	running      bool
	joiners      []builderJoiner
}

type builderJoiner struct {
	sessionID string
	username  string
	roleName  string
}

// NewTeamSessionBuilder creates a builder for a session hosted by hostID.
func NewTeamSessionBuilder(hostID string) *TeamSessionBuilder {
	return &TeamSessionBuilder{
		hostID:       hostID,
		hostUsername: "host-user",
		name:         "test-session",
	}
}

// Name sets the team session name (chainable).
func (b *TeamSessionBuilder) Name(name string) *TeamSessionBuilder { b.name = name; return b }

// HostUsername sets the hosting learner's username (chainable).
func (b *TeamSessionBuilder) HostUsername(username string) *TeamSessionBuilder {
	b.hostUsername = username
	return b
}

// Type sets the session type (chainable). Defaults to SessionTypeNormal.
func (b *TeamSessionBuilder) Type(t core.SessionType) *TeamSessionBuilder {
	b.sessionType = t
	return b
}

// Roles declares the leaf roles of the team organization (chainable).
func (b *TeamSessionBuilder) Roles(names ...string) *TeamSessionBuilder {
	b.roles = append(b.roles, names...)
	return b
}

// HostRole assigns the host to a declared role and marks the organization as
// requiring one (chainable).
func (b *TeamSessionBuilder) HostRole(roleName string) *TeamSessionBuilder {
	b.hostRole = roleName
	b.hostReq = true
	return b
}

// Joiner adds a joined member, optionally pre-assigned when roleName is
// non-empty (chainable).
func (b *TeamSessionBuilder) Joiner(sessionID, username, roleName string) *TeamSessionBuilder {
	b.joiners = append(b.joiners, builderJoiner{sessionID: sessionID, username: username, roleName: roleName})
	return b
}

// Running marks the session as started (chainable).
func (b *TeamSessionBuilder) Running() *TeamSessionBuilder { b.running = true; return b }

// Build assembles the knowledge session.
func (b *TeamSessionBuilder) Build() *core.KnowledgeSession {
	root := &core.TeamMember{Name: "team", Team: true}
	for _, role := range b.roles {
		root.Children = append(root.Children, &core.TeamMember{Name: role})
	}
	org := &core.TeamOrganization{Root: root, HostRoleRequired: b.hostReq}

	host := &core.SessionMember{
		SessionID:  b.hostID,
		Username:   b.hostUsername,
		Membership: core.IndividualMembership{},
	}
	if b.hostRole != "" {
		host.Assigned = org.FindRole(b.hostRole)
	}

	ks := core.NewKnowledgeSession(b.name, host, org, b.sessionType)
	for _, j := range b.joiners {
		member := &core.SessionMember{
			SessionID:  j.sessionID,
			Username:   j.username,
			Membership: core.IndividualMembership{},
		}
		if j.roleName != "" {
			member.Assigned = org.FindRole(j.roleName)
		}
		ks.AddMember(member)
	}
	ks.SetRunning(b.running)
	return ks
}
