package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/tutormesh/tutormesh/core"
	"github.com/tutormesh/tutormesh/metrics"
)

// Dispatch executes one activity against one target session, personalising
// content first where the activity demands it. The authored activity is
// never mutated: personalisation clones at this boundary and substitutes on
// the clone, so concurrently executing participants cannot observe each
// other's content.
func (e *Executor) Dispatch(
	ctx context.Context,
	surface core.PresentationSurface,
	sessionID string,
	member *core.SessionMember,
	activity core.Activity,
) error {
	start := time.Now()

	prepared, err := e.personalize(ctx, sessionID, member, activity)
	if err != nil {
		metrics.ActivitiesExecuted.WithLabelValues(activity.Kind(), "content_error").Inc()
		return err
	}

	switch prepared.(type) {
	case core.NoOpActivity:
		// Deliberate decision not to act; nothing reaches the surface.
		return nil
	case core.FeedbackActivity, core.MidLessonMediaActivity,
		core.ScenarioAdaptationActivity, core.PerformanceAssessmentActivity,
		core.BranchAdaptationActivity:
		err = surface.ExecuteActivity(ctx, prepared)
	default:
		err = fmt.Errorf("unhandled activity kind %q", prepared.Kind())
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ActivitiesExecuted.WithLabelValues(activity.Kind(), status).Inc()

	e.logger.Debug("activity %s executed on %s duration_ms=%d success=%t", activity.Kind(), sessionID, time.Since(start).Milliseconds(), err == nil)

	return err
}

// personalize returns the activity to execute for one participant. For
// activities flagged to request content using session state it deep-clones
// the authored value and substitutes the clone's content with the external
// provider's response; all other activities pass through unchanged.
func (e *Executor) personalize(
	ctx context.Context,
	sessionID string,
	member *core.SessionMember,
	activity core.Activity,
) (core.Activity, error) {
	switch a := activity.(type) {
	case core.FeedbackActivity:
		if !a.RequestUsingSessionState {
			return activity, nil
		}
		replacement, err := e.fetchContent(ctx, sessionID, member, core.ContentTypeText, a.Kind())
		if err != nil {
			return nil, err
		}
		clone := a.Clone().(core.FeedbackActivity)
		clone.Message = replacement
		return clone, nil

	case core.MidLessonMediaActivity:
		if !a.RequestUsingSessionState {
			return activity, nil
		}
		replacement, err := e.fetchContent(ctx, sessionID, member, core.ContentTypeWebpage, a.Kind())
		if err != nil {
			return nil, err
		}
		clone := a.Clone().(core.MidLessonMediaActivity)
		if len(clone.Items) == 0 {
			clone.Items = []core.MediaItem{{Name: "Generated content", Address: replacement, Format: core.ContentTypeWebpage}}
		} else {
			for i := range clone.Items {
				clone.Items[i].Address = replacement
			}
		}
		return clone, nil

	default:
		return activity, nil
	}
}

// fetchContent requests replacement content from the external provider for
// one participant's session. A missing provider, connectivity failure or
// non-200 response is a ContentUnavailableError for the requesting activity
// only.
func (e *Executor) fetchContent(
	ctx context.Context,
	sessionID string,
	member *core.SessionMember,
	contentType core.ContentType,
	kind string,
) (string, error) {
	if e.provider == nil {
		metrics.ContentFetches.WithLabelValues("unconfigured").Inc()
		return "", &ContentUnavailableError{SessionID: sessionID, Kind: kind, Err: fmt.Errorf("no content provider configured")}
	}

	req := core.ContentRequest{SessionID: sessionID, ContentType: contentType}
	if member != nil {
		req.Username = member.Username
		if member.Assigned != nil {
			req.TeamRole = member.Assigned.Name
		}
	}

	replacement, err := e.provider.Fetch(ctx, req)
	if err != nil {
		metrics.ContentFetches.WithLabelValues("error").Inc()
		return "", &ContentUnavailableError{SessionID: sessionID, Kind: kind, Err: err}
	}
	metrics.ContentFetches.WithLabelValues("ok").Inc()

	return replacement, nil
}
