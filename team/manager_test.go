package team

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutormesh/tutormesh/core"
	"github.com/tutormesh/tutormesh/internal/testutil"
	"github.com/tutormesh/tutormesh/registry"
)

func crewOrganization() *core.TeamOrganization {
	return &core.TeamOrganization{
		Root: &core.TeamMember{Name: "crew", Team: true, Children: []*core.TeamMember{
			{Name: "driver"},
			{Name: "observer"},
		}},
		HostRoleRequired: true,
	}
}

type managerFixture struct {
	registry  *registry.InMemory
	surfaces  testutil.SurfaceMap
	publisher *testutil.FakePublisher
	manager   *Manager
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()
	f := &managerFixture{
		registry:  registry.NewInMemory(),
		surfaces:  testutil.SurfaceMap{},
		publisher: &testutil.FakePublisher{},
	}
	f.manager = NewManager(func(o *Options) {
		o.Registry = f.registry
		o.Surfaces = f.surfaces
		o.Publisher = f.publisher
	})
	return f
}

func (f *managerFixture) addSurface(sessionID string) *testutil.FakeSurface {
	s := &testutil.FakeSurface{}
	f.surfaces[sessionID] = s
	return s
}

// hostAndJoin builds a hosted session with one joined member, surfaces
// registered for both.
func (f *managerFixture) hostAndJoin(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	f.addSurface("host-1")
	f.addSurface("sess-a")
	require.NoError(t, f.manager.CreateTeamSession(ctx, "host-1", "alice", "drill", crewOrganization(), nil, core.SessionTypeNormal))
	require.NoError(t, f.manager.Join(ctx, "host-1", "sess-a", "bob"))
}

func TestCreateTeamSession(t *testing.T) {
	f := newManagerFixture(t)
	err := f.manager.CreateTeamSession(context.Background(), "host-1", "alice", "drill", crewOrganization(), nil, core.SessionTypeNormal)
	require.NoError(t, err)

	ks, ok := f.registry.KnowledgeSession("host-1")
	require.True(t, ok)
	assert.Equal(t, "drill", ks.Name)
	assert.Equal(t, "alice", ks.Host.Username)
	assert.False(t, ks.Running())
	assert.Len(t, f.publisher.Replies(), 1)
}

func TestCreateTeamSession_RejectsDoubleHost(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.manager.CreateTeamSession(ctx, "host-1", "alice", "drill", crewOrganization(), nil, core.SessionTypeNormal))

	err := f.manager.CreateTeamSession(ctx, "host-1", "alice", "again", crewOrganization(), nil, core.SessionTypeNormal)
	require.Error(t, err)
	var merr *MembershipError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "host", merr.Action)
}

func TestCreateTeamSession_GroupRosterAssignsHost(t *testing.T) {
	f := newManagerFixture(t)
	membership := core.GroupMembership{Roster: []core.RosterEntry{
		{Username: "alice", RoleName: "driver"},
		{Username: "bob", RoleName: "observer"},
	}}
	require.NoError(t, f.manager.CreateTeamSession(context.Background(), "host-1", "alice", "drill", crewOrganization(), membership, core.SessionTypeNormal))

	ks, _ := f.registry.KnowledgeSession("host-1")
	require.NotNil(t, ks.Host.Assigned)
	assert.Equal(t, "driver", ks.Host.Assigned.Name)
}

func TestJoin_GroupRosterAssignsJoiner(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	membership := core.GroupMembership{Roster: []core.RosterEntry{
		{Username: "alice", RoleName: "driver"},
		{Username: "bob", RoleName: "observer"},
	}}
	require.NoError(t, f.manager.CreateTeamSession(ctx, "host-1", "alice", "drill", crewOrganization(), membership, core.SessionTypeNormal))
	require.NoError(t, f.manager.Join(ctx, "host-1", "sess-a", "bob"))

	ks, _ := f.registry.KnowledgeSession("host-1")
	member := ks.Member("sess-a")
	require.NotNil(t, member)
	require.NotNil(t, member.Assigned)
	assert.Equal(t, "observer", member.Assigned.Name)
}

func TestJoin_RejectedAfterStart(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.hostAndJoin(t)
	require.NoError(t, f.manager.Assign(ctx, "host-1", "host-1", "driver"))
	require.NoError(t, f.manager.Assign(ctx, "host-1", "sess-a", "observer"))
	require.NoError(t, f.manager.Start(ctx, "host-1"))

	err := f.manager.Join(ctx, "host-1", "sess-b", "carol")
	require.Error(t, err)
	assert.Equal(t, ReasonSessionRunning, err.Error())
}

func TestJoin_RejectsHostOfAnotherSession(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.manager.CreateTeamSession(ctx, "host-1", "alice", "drill", crewOrganization(), nil, core.SessionTypeNormal))
	require.NoError(t, f.manager.CreateTeamSession(ctx, "host-2", "carol", "other", crewOrganization(), nil, core.SessionTypeNormal))

	err := f.manager.Join(ctx, "host-1", "host-2", "carol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hosts its own")
}

func TestAssign_UnknownRole(t *testing.T) {
	f := newManagerFixture(t)
	f.hostAndJoin(t)

	err := f.manager.Assign(context.Background(), "host-1", "sess-a", "navigator")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown team role "navigator"`)
}

func TestAssign_RoleConflict(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.hostAndJoin(t)
	require.NoError(t, f.manager.Assign(ctx, "host-1", "host-1", "driver"))

	err := f.manager.Assign(ctx, "host-1", "sess-a", "driver")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already assigned")
}

func TestAssign_Reassignment(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.hostAndJoin(t)
	require.NoError(t, f.manager.Assign(ctx, "host-1", "sess-a", "driver"))
	// The same member may move to a free role before start.
	require.NoError(t, f.manager.Assign(ctx, "host-1", "sess-a", "observer"))

	ks, _ := f.registry.KnowledgeSession("host-1")
	assert.Equal(t, "observer", ks.Member("sess-a").Assigned.Name)
}

func TestStart_GatedOnAssignments(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.hostAndJoin(t)
	require.NoError(t, f.manager.Assign(ctx, "host-1", "host-1", "driver"))

	// sess-a has no role yet.
	err := f.manager.Start(ctx, "host-1")
	require.Error(t, err)
	assert.Equal(t, "all joined members must be assigned to a team role", err.Error())

	ks, _ := f.registry.KnowledgeSession("host-1")
	assert.False(t, ks.Running())
}

func TestStart_GatedOnHostRole(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.hostAndJoin(t)
	require.NoError(t, f.manager.Assign(ctx, "host-1", "sess-a", "observer"))

	// The organization requires the host to hold a role too.
	err := f.manager.Start(ctx, "host-1")
	require.Error(t, err)
	assert.Equal(t, ReasonAllMembersAssigned, err.Error())
}

// orderedSurface records start order into a shared slice.
type orderedSurface struct {
	testutil.FakeSurface
	id    string
	mu    *sync.Mutex
	order *[]string
}

func (s *orderedSurface) StartTeamKnowledgeSession(ctx context.Context) error {
	s.mu.Lock()
	*s.order = append(*s.order, s.id)
	s.mu.Unlock()
	return s.FakeSurface.StartTeamKnowledgeSession(ctx)
}

func TestStart_HostSurfaceStartsFirst(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()

	var mu sync.Mutex
	var order []string
	for _, id := range []string{"host-1", "sess-a", "sess-b"} {
		f.surfaces[id] = &orderedSurface{id: id, mu: &mu, order: &order}
	}

	require.NoError(t, f.manager.CreateTeamSession(ctx, "host-1", "alice", "drill", crewOrganization(), nil, core.SessionTypeNormal))
	require.NoError(t, f.manager.Join(ctx, "host-1", "sess-a", "bob"))

	require.NoError(t, f.manager.Assign(ctx, "host-1", "host-1", "driver"))
	require.NoError(t, f.manager.Assign(ctx, "host-1", "sess-a", "observer"))
	require.NoError(t, f.manager.Start(ctx, "host-1"))

	require.Len(t, order, 2)
	assert.Equal(t, "host-1", order[0])
	assert.Equal(t, "sess-a", order[1])

	ks, _ := f.registry.KnowledgeSession("host-1")
	assert.True(t, ks.Running())
}

func TestStart_HostFailureRollsBackRunning(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	host := f.addSurface("host-1")
	host.StartErr = errors.New("surface offline")

	require.NoError(t, f.manager.CreateTeamSession(ctx, "host-1", "alice", "drill", crewOrganization(), nil, core.SessionTypeNormal))
	require.NoError(t, f.manager.Assign(ctx, "host-1", "host-1", "driver"))

	err := f.manager.Start(ctx, "host-1")
	require.Error(t, err)

	ks, _ := f.registry.KnowledgeSession("host-1")
	assert.False(t, ks.Running())
}

func TestLeave(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.hostAndJoin(t)

	require.NoError(t, f.manager.Leave(ctx, "host-1", "sess-a"))

	ks, _ := f.registry.KnowledgeSession("host-1")
	assert.Nil(t, ks.Member("sess-a"))
	_, joined := f.registry.IsJoiner("sess-a")
	assert.False(t, joined)
}

func TestLeave_HostLeavingTerminates(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.hostAndJoin(t)
	joiner := f.surfaces["sess-a"].(*testutil.FakeSurface)

	require.NoError(t, f.manager.Leave(ctx, "host-1", "host-1"))

	_, ok := f.registry.KnowledgeSession("host-1")
	assert.False(t, ok)
	require.Len(t, joiner.Terminations(), 1)
	assert.Equal(t, ReasonCourseTerminated, joiner.Terminations()[0])
}

func TestTerminate_CascadesToEveryParticipant(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.hostAndJoin(t)
	host := f.surfaces["host-1"].(*testutil.FakeSurface)
	joiner := f.surfaces["sess-a"].(*testutil.FakeSurface)

	// A failing joiner surface must not stop the cascade.
	joiner.TerminateErr = errors.New("already gone")

	require.NoError(t, f.manager.Terminate(ctx, "host-1", ReasonCourseTerminated, "strategy failure"))

	assert.Len(t, joiner.Terminations(), 1)
	require.Len(t, host.Terminations(), 1)
	assert.Equal(t, ReasonCourseTerminated, host.Terminations()[0])

	_, ok := f.registry.KnowledgeSession("host-1")
	assert.False(t, ok)
}

func TestTerminate_UnknownHost(t *testing.T) {
	f := newManagerFixture(t)
	err := f.manager.Terminate(context.Background(), "ghost", ReasonCourseTerminated, "")
	require.Error(t, err)
}

func TestPublisher_NotifiedOnEveryTransition(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.hostAndJoin(t)
	require.NoError(t, f.manager.Assign(ctx, "host-1", "host-1", "driver"))

	// host, join, assign: one roster reply each.
	assert.Len(t, f.publisher.Replies(), 3)
}
