package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutormesh/tutormesh/core"
	"github.com/tutormesh/tutormesh/internal/testutil"
)

func TestApply_ControllerFeedbackRoutedToMonitors(t *testing.T) {
	f := newTwoJoinerFixture(t)
	hostMonitor := &testutil.FakeMonitor{}
	joinerMonitor := &testutil.FakeMonitor{}
	e := f.executor(func(o *Options) {
		o.Monitors = testutil.MonitorMap{
			"host-1": {hostMonitor},
			"sess-a": {joinerMonitor},
		}
	})

	sta := core.StrategyToApply{
		Strategy: testutil.NewStrategyBuilder("notify").
			ControllerFeedback("learner is overloaded").
			Build(),
		Reason: "stress-spike",
	}
	require.NoError(t, e.Apply(context.Background(), "host-1", sta))

	// Each attached monitor receives its own copy, stamped with the session
	// it observes.
	hostMsgs := hostMonitor.Messages()
	require.Len(t, hostMsgs, 1)
	assert.Equal(t, "host-1", hostMsgs[0].SessionID)
	assert.Equal(t, "learner is overloaded", hostMsgs[0].Message)
	assert.Equal(t, "stress-spike", hostMsgs[0].Reason)

	joinerMsgs := joinerMonitor.Messages()
	require.Len(t, joinerMsgs, 1)
	assert.Equal(t, "sess-a", joinerMsgs[0].SessionID)

	// The learner-facing copy still fans out normally.
	assert.Len(t, f.host.Executed(), 1)
	assert.Len(t, f.joinerA.Executed(), 1)
}

func TestApply_ControllerAudioAddressFullyQualified(t *testing.T) {
	f := newTwoJoinerFixture(t)
	monitor := &testutil.FakeMonitor{}
	e := f.executor(func(o *Options) {
		o.Monitors = testutil.MonitorMap{"host-1": {monitor}}
		o.ContentServerURL = "https://content.example.com"
	})

	sta := core.StrategyToApply{
		Strategy: testutil.NewStrategyBuilder("audio").Activity(core.FeedbackActivity{
			DeliverToController: true,
			Audio:               &core.AudioPresentation{MP3File: "audio/alert.mp3"},
		}).Build(),
	}
	require.NoError(t, e.Apply(context.Background(), "host-1", sta))

	msgs := monitor.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "https://content.example.com/audio/alert.mp3", msgs[0].AudioURL)
}

func TestApply_MonitorDeliveryFailureIsNonFatal(t *testing.T) {
	f := newTwoJoinerFixture(t)
	monitor := &testutil.FakeMonitor{SendErr: errors.New("socket closed")}
	logger := &testutil.CapturingLogger{}
	e := f.executor(func(o *Options) {
		o.Monitors = testutil.MonitorMap{"host-1": {monitor}}
		o.Logger = logger
	})

	sta := core.StrategyToApply{
		Strategy: testutil.NewStrategyBuilder("notify").
			ControllerFeedback("msg").
			Build(),
	}
	require.NoError(t, e.Apply(context.Background(), "host-1", sta))

	assert.Greater(t, logger.Count("warn"), 0)
	assert.Len(t, f.host.Executed(), 1)
}

func TestApply_NoMonitorsIsNoOp(t *testing.T) {
	f := newTwoJoinerFixture(t)
	e := f.executor()

	sta := core.StrategyToApply{
		Strategy: testutil.NewStrategyBuilder("notify").
			ControllerFeedback("msg").
			Build(),
	}
	require.NoError(t, e.Apply(context.Background(), "host-1", sta))
	assert.Len(t, f.joinerB.Executed(), 1)
}
