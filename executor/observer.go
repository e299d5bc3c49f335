package executor

import (
	"context"
	"time"

	"github.com/tutormesh/tutormesh/content"
	"github.com/tutormesh/tutormesh/core"
	"github.com/tutormesh/tutormesh/metrics"
)

// routeToController builds an isolated copy of a controller-tagged feedback
// activity, restricted to the controller-bound presentation (message or
// audio), and sends it to every monitor endpoint attached to the host and
// each joiner. The step is independent of the learner-facing fan-out; with
// no endpoints attached it is a no-op. Delivery failures are logged, never
// propagated.
func (e *Executor) routeToController(
	ctx context.Context,
	hostID string,
	joiners []*core.SessionMember,
	fb core.FeedbackActivity,
	reason string,
) {
	if e.monitors == nil {
		return
	}

	// The controller copy carries either the message or a fully qualified
	// audio address, never a reference into the authored activity.
	template := core.ControllerMessage{
		ID:        core.NewID(),
		Reason:    reason,
		Message:   fb.Message,
		Timestamp: time.Now().UTC(),
	}
	if fb.Audio != nil {
		address := fb.Audio.MP3File
		if address == "" {
			address = fb.Audio.OGGFile
		}
		template.AudioURL = content.ResolveAssetURL(e.contentServerURL, address)
	}

	sessionIDs := make([]string, 0, len(joiners)+1)
	sessionIDs = append(sessionIDs, hostID)
	for _, m := range joiners {
		sessionIDs = append(sessionIDs, m.SessionID)
	}

	for _, sessionID := range sessionIDs {
		endpoints := e.monitors.MonitorsFor(sessionID)
		for _, endpoint := range endpoints {
			msg := template
			msg.SessionID = sessionID
			if err := endpoint.SendControllerMessage(ctx, msg); err != nil {
				e.logger.Warn("controller delivery failed for session %s: %v", sessionID, err)
				continue
			}
			metrics.ControllerMessages.Inc()
		}
	}
}
