package core

// Intent represents one abstract pedagogical "do X" request before catalog
// resolution. Concrete intent types implement the unexported isIntent marker
// enabling a closed set. All intents except BranchAdaptationIntent and
// DoNothingIntent name an authored strategy by string identifier.
type Intent interface{ isIntent() }

// InstructionalInterventionIntent requests feedback to the learner.
type InstructionalInterventionIntent struct {
	StrategyName string
	TaskIDs      []string
}

func (InstructionalInterventionIntent) isIntent() {}

// MidLessonMediaIntent requests presentation of mid-lesson media.
type MidLessonMediaIntent struct {
	StrategyName string
	TaskIDs      []string
}

func (MidLessonMediaIntent) isIntent() {}

// ScenarioAdaptationIntent requests a change to the running scenario.
type ScenarioAdaptationIntent struct {
	StrategyName string
	TaskIDs      []string
}

func (ScenarioAdaptationIntent) isIntent() {}

// PerformanceAssessmentIntent requests an additional performance assessment.
type PerformanceAssessmentIntent struct {
	StrategyName string
	TaskIDs      []string
}

func (PerformanceAssessmentIntent) isIntent() {}

// BranchAdaptationIntent carries its branch target inline rather than naming
// an authored strategy. Branch adaptations must always execute and are never
// deduplicated during resolution.
type BranchAdaptationIntent struct {
	Target  string
	TaskIDs []string
}

func (BranchAdaptationIntent) isIntent() {}

// DoNothingIntent records a deliberate decision not to act; resolution skips
// it entirely.
type DoNothingIntent struct{}

func (DoNothingIntent) isIntent() {}
