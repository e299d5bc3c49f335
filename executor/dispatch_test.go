package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutormesh/tutormesh/core"
	"github.com/tutormesh/tutormesh/internal/testutil"
	"github.com/tutormesh/tutormesh/registry"
)

func newDispatchExecutor(provider core.ContentProvider) *Executor {
	return New(func(o *Options) {
		o.Registry = registry.NewInMemory()
		o.Surfaces = testutil.SurfaceMap{}
		o.Provider = provider
	})
}

func TestDispatch_PersonalizationNeverMutatesAuthoredActivity(t *testing.T) {
	provider := &testutil.FakeProvider{BySess: map[string]string{
		"sess-a": "content for alice",
		"sess-b": "content for bob",
	}}
	e := newDispatchExecutor(provider)

	authored := core.FeedbackActivity{Message: "placeholder", RequestUsingSessionState: true}
	surfaceA := &testutil.FakeSurface{}
	surfaceB := &testutil.FakeSurface{}

	memberA := &core.SessionMember{SessionID: "sess-a", Username: "alice"}
	memberB := &core.SessionMember{SessionID: "sess-b", Username: "bob"}

	require.NoError(t, e.Dispatch(context.Background(), surfaceA, "sess-a", memberA, authored))
	require.NoError(t, e.Dispatch(context.Background(), surfaceB, "sess-b", memberB, authored))

	// Each participant sees its own content.
	gotA := surfaceA.Executed()[0].Activity.(core.FeedbackActivity)
	gotB := surfaceB.Executed()[0].Activity.(core.FeedbackActivity)
	assert.Equal(t, "content for alice", gotA.Message)
	assert.Equal(t, "content for bob", gotB.Message)

	// The authored value is untouched.
	assert.Equal(t, "placeholder", authored.Message)
}

func TestDispatch_ContentRequestCarriesTeamContext(t *testing.T) {
	provider := &testutil.FakeProvider{Default: "generated"}
	e := newDispatchExecutor(provider)

	role := &core.TeamMember{Name: "observer"}
	member := &core.SessionMember{SessionID: "sess-a", Username: "alice", Assigned: role}
	activity := core.FeedbackActivity{RequestUsingSessionState: true}

	require.NoError(t, e.Dispatch(context.Background(), &testutil.FakeSurface{}, "sess-a", member, activity))

	requests := provider.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "sess-a", requests[0].SessionID)
	assert.Equal(t, "alice", requests[0].Username)
	assert.Equal(t, "observer", requests[0].TeamRole)
	assert.Equal(t, core.ContentTypeText, requests[0].ContentType)
}

func TestDispatch_MediaSynthesizesItemWhenNoneAuthored(t *testing.T) {
	provider := &testutil.FakeProvider{Default: "https://content/generated.html"}
	e := newDispatchExecutor(provider)

	surface := &testutil.FakeSurface{}
	activity := core.MidLessonMediaActivity{RequestUsingSessionState: true}

	require.NoError(t, e.Dispatch(context.Background(), surface, "sess-a", nil, activity))

	got := surface.Executed()[0].Activity.(core.MidLessonMediaActivity)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "https://content/generated.html", got.Items[0].Address)
	assert.Equal(t, core.ContentTypeWebpage, got.Items[0].Format)
}

func TestDispatch_MediaSubstitutesEveryAuthoredItem(t *testing.T) {
	provider := &testutil.FakeProvider{Default: "https://content/override.html"}
	e := newDispatchExecutor(provider)

	surface := &testutil.FakeSurface{}
	activity := core.MidLessonMediaActivity{
		RequestUsingSessionState: true,
		Items: []core.MediaItem{
			{Name: "one", Address: "/authored/one"},
			{Name: "two", Address: "/authored/two"},
		},
	}

	require.NoError(t, e.Dispatch(context.Background(), surface, "sess-a", nil, activity))

	got := surface.Executed()[0].Activity.(core.MidLessonMediaActivity)
	require.Len(t, got.Items, 2)
	for _, item := range got.Items {
		assert.Equal(t, "https://content/override.html", item.Address)
	}
	// Authored addresses are untouched.
	assert.Equal(t, "/authored/one", activity.Items[0].Address)
}

func TestDispatch_NoProviderYieldsContentUnavailable(t *testing.T) {
	e := newDispatchExecutor(nil)

	surface := &testutil.FakeSurface{}
	activity := core.FeedbackActivity{RequestUsingSessionState: true}

	err := e.Dispatch(context.Background(), surface, "sess-a", nil, activity)
	require.Error(t, err)

	var unavailable *ContentUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "sess-a", unavailable.SessionID)
	assert.Empty(t, surface.Executed())
}

func TestDispatch_NoOpNeverReachesSurface(t *testing.T) {
	e := newDispatchExecutor(nil)
	surface := &testutil.FakeSurface{}

	require.NoError(t, e.Dispatch(context.Background(), surface, "sess-a", nil, core.NoOpActivity{}))
	assert.Empty(t, surface.Executed())
}

func TestDispatch_PlainActivitiesPassThrough(t *testing.T) {
	e := newDispatchExecutor(nil)
	surface := &testutil.FakeSurface{}

	activity := core.FeedbackActivity{Message: "static"}
	require.NoError(t, e.Dispatch(context.Background(), surface, "sess-a", nil, activity))

	got := surface.Executed()[0].Activity.(core.FeedbackActivity)
	assert.Equal(t, "static", got.Message)
}
