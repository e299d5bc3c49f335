package core

import "time"

// ContentType identifies the kind of replacement content requested from an
// external content provider.
type ContentType string

const (
	// ContentTypeText requests plain text replacement content.
	ContentTypeText ContentType = "text"
	// ContentTypeWebpage requests a webpage address or HTML fragment.
	ContentTypeWebpage ContentType = "webpage"
)

// Activity represents one concrete pedagogical action within a Strategy.
// Concrete activity types implement the unexported isActivity marker enabling
// a closed set that dispatchers can match exhaustively.
//
// Authored activities are shared read-only between concurrently executing
// participants. Clone returns a deep copy safe for per-participant mutation;
// dispatchers must clone before substituting any content.
type Activity interface {
	// Kind returns a stable lower-case label for logging and metrics.
	Kind() string
	// Clone returns a deep copy safe for independent mutation.
	Clone() Activity

	isActivity()
}

// AudioPresentation references authored audio assets for a feedback activity.
// Addresses are relative to the course folder until rewritten for delivery.
type AudioPresentation struct {
	MP3File string
	OGGFile string
}

// Clone returns a copy of the audio presentation.
func (a *AudioPresentation) Clone() *AudioPresentation {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// FeedbackActivity presents an instructional intervention to a participant:
// a text message, an audio cue, or both.
type FeedbackActivity struct {
	// Message is the feedback text shown on the learner surface.
	Message string
	// Audio optionally references audio assets played alongside the message.
	Audio *AudioPresentation
	// DeliverToController marks the feedback for delivery to attached
	// observer/controller endpoints in addition to the learner surface.
	DeliverToController bool
	// RequestUsingSessionState indicates the message must be fetched from the
	// external content provider using the target session's state instead of
	// the authored text.
	RequestUsingSessionState bool
	// PostDelay is the host-side pause after the activity completes. The
	// pause begins only after every joiner has finished the activity.
	PostDelay time.Duration
}

// Kind implements Activity.
func (FeedbackActivity) Kind() string { return "feedback" }

// Clone implements Activity with a deep copy including the audio presentation.
func (f FeedbackActivity) Clone() Activity {
	f.Audio = f.Audio.Clone()
	return f
}

func (FeedbackActivity) isActivity() {}

// MediaItem is one addressable piece of mid-lesson media.
type MediaItem struct {
	Name    string
	Address string
	Format  ContentType
}

// MidLessonMediaActivity presents one or more media items (webpages, images,
// videos) on the learner surface without leaving the running scenario.
type MidLessonMediaActivity struct {
	Items []MediaItem
	// RequestUsingSessionState indicates item addresses must be produced by
	// the external content provider from the target session's state.
	RequestUsingSessionState bool
	PostDelay                time.Duration
}

// Kind implements Activity.
func (MidLessonMediaActivity) Kind() string { return "media" }

// Clone implements Activity, deep-copying the item list.
func (m MidLessonMediaActivity) Clone() Activity {
	items := make([]MediaItem, len(m.Items))
	copy(items, m.Items)
	m.Items = items
	return m
}

func (MidLessonMediaActivity) isActivity() {}

// ScenarioAdaptationActivity changes the running scenario environment
// (weather, actors, pacing) on the target session.
type ScenarioAdaptationActivity struct {
	Description string
	// Parameters carry the adaptation payload interpreted by the scenario
	// runtime (opaque to this core).
	Parameters map[string]any
}

// Kind implements Activity.
func (ScenarioAdaptationActivity) Kind() string { return "scenario-adaptation" }

// Clone implements Activity, deep-copying the parameter map.
func (s ScenarioAdaptationActivity) Clone() Activity {
	params := make(map[string]any, len(s.Parameters))
	for k, v := range s.Parameters {
		params[k] = v
	}
	s.Parameters = params
	return s
}

func (ScenarioAdaptationActivity) isActivity() {}

// PerformanceAssessmentActivity requests an additional assessment of a task
// or concept in the scenario's performance model.
type PerformanceAssessmentActivity struct {
	// NodeName names the task/concept to assess.
	NodeName string
	// Level optionally forces an assessment level instead of re-evaluating.
	Level string
}

// Kind implements Activity.
func (PerformanceAssessmentActivity) Kind() string { return "assessment" }

// Clone implements Activity.
func (p PerformanceAssessmentActivity) Clone() Activity { return p }

func (PerformanceAssessmentActivity) isActivity() {}

// BranchAdaptationActivity redirects the course flow to a named branch
// target. Branch adaptations drive scenario branching rather than feedback
// and are therefore never deduplicated during resolution.
type BranchAdaptationActivity struct {
	Target string
}

// Kind implements Activity.
func (BranchAdaptationActivity) Kind() string { return "branch" }

// Clone implements Activity.
func (b BranchAdaptationActivity) Clone() Activity { return b }

func (BranchAdaptationActivity) isActivity() {}

// NoOpActivity is the explicit do-nothing action. It exists so authored
// strategies can record a deliberate decision not to act.
type NoOpActivity struct{}

// Kind implements Activity.
func (NoOpActivity) Kind() string { return "do-nothing" }

// Clone implements Activity.
func (n NoOpActivity) Clone() Activity { return n }

func (NoOpActivity) isActivity() {}
