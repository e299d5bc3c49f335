package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crewOrg(hostRoleRequired bool) *TeamOrganization {
	return &TeamOrganization{
		Root: &TeamMember{Name: "crew", Team: true, Children: []*TeamMember{
			{Name: "driver"},
			{Name: "support", Team: true, Children: []*TeamMember{
				{Name: "observer"},
				{Name: "radio"},
			}},
		}},
		HostRoleRequired: hostRoleRequired,
	}
}

func TestTeamOrganization_FindRole(t *testing.T) {
	org := crewOrg(false)

	assert.Equal(t, "driver", org.FindRole("driver").Name)

	// Nested roles and sub-teams are reachable by depth-first search.
	assert.Equal(t, "radio", org.FindRole("radio").Name)
	sub := org.FindRole("support")
	require.NotNil(t, sub)
	assert.True(t, sub.Team)

	assert.Nil(t, org.FindRole("navigator"))

	var nilOrg *TeamOrganization
	assert.Nil(t, nilOrg.FindRole("driver"))
}

func newSession(hostRoleRequired bool) *KnowledgeSession {
	host := &SessionMember{SessionID: "host-1", Username: "alice", Membership: IndividualMembership{}}
	return NewKnowledgeSession("drill", host, crewOrg(hostRoleRequired), SessionTypeNormal)
}

func TestKnowledgeSession_Roster(t *testing.T) {
	ks := newSession(false)
	ks.AddMember(&SessionMember{SessionID: "sess-a", Username: "bob"})
	ks.AddMember(&SessionMember{SessionID: "sess-b", Username: "carol"})

	members := ks.Members()
	require.Len(t, members, 2)
	assert.Equal(t, "sess-a", members[0].SessionID)
	assert.Equal(t, "sess-b", members[1].SessionID)

	// Members returns a defensive copy of the roster slice.
	members[0] = nil
	require.NotNil(t, ks.Member("sess-a"))

	assert.Equal(t, "carol", ks.MemberByUsername("carol").Username)
	assert.Nil(t, ks.Member("ghost"))

	require.True(t, ks.RemoveMember("sess-a"))
	assert.False(t, ks.RemoveMember("sess-a"))
	assert.Len(t, ks.Members(), 1)
}

func TestKnowledgeSession_Unassigned(t *testing.T) {
	ks := newSession(true)
	ks.AddMember(&SessionMember{SessionID: "sess-a", Username: "bob"})

	// Host role required and nobody assigned yet.
	assert.ElementsMatch(t, []string{"alice", "bob"}, ks.Unassigned())

	ks.Host.Assigned = ks.Organization.FindRole("driver")
	assert.Equal(t, []string{"bob"}, ks.Unassigned())

	ks.Member("sess-a").Assigned = ks.Organization.FindRole("observer")
	assert.Empty(t, ks.Unassigned())
}

func TestKnowledgeSession_UnassignedHostOptional(t *testing.T) {
	ks := newSession(false)
	assert.Empty(t, ks.Unassigned())
}

func TestKnowledgeSession_Snapshot(t *testing.T) {
	ks := newSession(true)
	ks.Host.Assigned = ks.Organization.FindRole("driver")
	ks.AddMember(&SessionMember{SessionID: "sess-a", Username: "bob", Assigned: ks.Organization.FindRole("observer")})
	ks.SetRunning(true)

	snap := ks.Snapshot()
	assert.Equal(t, "host-1", snap.HostID)
	assert.Equal(t, "drill", snap.Name)
	assert.Equal(t, "alice", snap.HostUsername)
	assert.Equal(t, "driver", snap.HostRole)
	assert.True(t, snap.Running)
	require.Len(t, snap.Members, 1)
	assert.Equal(t, "bob", snap.Members[0].Username)
	assert.Equal(t, "observer", snap.Members[0].RoleName)
}

func TestKnowledgeSession_CloneDiverges(t *testing.T) {
	ks := newSession(false)
	ks.AddMember(&SessionMember{SessionID: "sess-a", Username: "bob"})

	clone := ks.Clone()
	clone.Host.Username = "mallory"
	clone.Member("sess-a").Assigned = clone.Organization.FindRole("radio")
	clone.SetRunning(true)

	assert.Equal(t, "alice", ks.Host.Username)
	assert.Nil(t, ks.Member("sess-a").Assigned)
	assert.False(t, ks.Running())
}
