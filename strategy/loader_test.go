package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutormesh/tutormesh/core"
)

func TestParseCatalog(t *testing.T) {
	data := []byte(`
strategies:
  - name: remediate-overload
    stress: 0.7
    difficulty: 0.3
    resetScenario: true
    activities:
      - kind: feedback
        message: "slow down"
        deliverToController: true
        delaySeconds: 1.5
        audio:
          mp3: audio/slow.mp3
          ogg: audio/slow.ogg
      - kind: media
        items:
          - name: checklist
            address: /content/checklist.html
      - kind: scenarioAdaptation
        description: reduce-traffic
        parameters:
          density: 0.2
      - kind: assessment
        node: situational-awareness
        level: Novice
      - kind: branch
        target: chapter-2
      - kind: doNothing
`)

	catalog, err := ParseCatalog(data)
	require.NoError(t, err)
	require.Equal(t, 1, catalog.Len())

	s, ok := catalog.Lookup("remediate-overload")
	require.True(t, ok)
	require.NotNil(t, s.Stress)
	assert.InDelta(t, 0.7, *s.Stress, 1e-9)
	require.NotNil(t, s.Difficulty)
	assert.InDelta(t, 0.3, *s.Difficulty, 1e-9)
	assert.True(t, s.ResetScenario)
	require.Len(t, s.Activities, 6)

	fb, ok := s.Activities[0].(core.FeedbackActivity)
	require.True(t, ok)
	assert.Equal(t, "slow down", fb.Message)
	assert.True(t, fb.DeliverToController)
	assert.Equal(t, 1500*time.Millisecond, fb.PostDelay)
	require.NotNil(t, fb.Audio)
	assert.Equal(t, "audio/slow.mp3", fb.Audio.MP3File)

	media, ok := s.Activities[1].(core.MidLessonMediaActivity)
	require.True(t, ok)
	require.Len(t, media.Items, 1)
	assert.Equal(t, core.ContentTypeWebpage, media.Items[0].Format)

	adapt, ok := s.Activities[2].(core.ScenarioAdaptationActivity)
	require.True(t, ok)
	assert.Equal(t, "reduce-traffic", adapt.Description)

	assess, ok := s.Activities[3].(core.PerformanceAssessmentActivity)
	require.True(t, ok)
	assert.Equal(t, "situational-awareness", assess.NodeName)

	branch, ok := s.Activities[4].(core.BranchAdaptationActivity)
	require.True(t, ok)
	assert.Equal(t, "chapter-2", branch.Target)

	_, ok = s.Activities[5].(core.NoOpActivity)
	assert.True(t, ok)
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown kind",
			yaml: "strategies:\n  - name: s\n    activities:\n      - kind: teleport\n",
			want: "unknown activity kind",
		},
		{
			name: "feedback without content",
			yaml: "strategies:\n  - name: s\n    activities:\n      - kind: feedback\n",
			want: "feedback requires",
		},
		{
			name: "media without items",
			yaml: "strategies:\n  - name: s\n    activities:\n      - kind: media\n",
			want: "media requires",
		},
		{
			name: "assessment without node",
			yaml: "strategies:\n  - name: s\n    activities:\n      - kind: assessment\n",
			want: "assessment requires",
		},
		{
			name: "branch without target",
			yaml: "strategies:\n  - name: s\n    activities:\n      - kind: branch\n",
			want: "branch requires",
		},
		{
			name: "missing strategy name",
			yaml: "strategies:\n  - activities:\n      - kind: doNothing\n",
			want: "empty name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseCatalog_SessionStateMediaNeedsNoItems(t *testing.T) {
	data := []byte("strategies:\n  - name: s\n    activities:\n      - kind: media\n        requestUsingSessionState: true\n")
	catalog, err := ParseCatalog(data)
	require.NoError(t, err)

	s, ok := catalog.Lookup("s")
	require.True(t, ok)
	media, ok := s.Activities[0].(core.MidLessonMediaActivity)
	require.True(t, ok)
	assert.True(t, media.RequestUsingSessionState)
	assert.Empty(t, media.Items)
}
