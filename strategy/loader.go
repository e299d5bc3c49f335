package strategy

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tutormesh/tutormesh/core"
)

// catalogDoc is the YAML shape of an authored strategy catalog.
type catalogDoc struct {
	Strategies []strategyDoc `yaml:"strategies"`
}

type strategyDoc struct {
	Name          string        `yaml:"name"`
	Stress        *float64      `yaml:"stress"`
	Difficulty    *float64      `yaml:"difficulty"`
	ResetScenario bool          `yaml:"resetScenario"`
	Activities    []activityDoc `yaml:"activities"`
}

type activityDoc struct {
	Kind string `yaml:"kind"`

	// feedback
	Message                  string    `yaml:"message"`
	Audio                    *audioDoc `yaml:"audio"`
	DeliverToController      bool      `yaml:"deliverToController"`
	RequestUsingSessionState bool      `yaml:"requestUsingSessionState"`
	DelaySeconds             float64   `yaml:"delaySeconds"`

	// media
	Items []mediaItemDoc `yaml:"items"`

	// scenario adaptation
	Description string         `yaml:"description"`
	Parameters  map[string]any `yaml:"parameters"`

	// assessment
	Node  string `yaml:"node"`
	Level string `yaml:"level"`

	// branch
	Target string `yaml:"target"`
}

type audioDoc struct {
	MP3 string `yaml:"mp3"`
	OGG string `yaml:"ogg"`
}

type mediaItemDoc struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Format  string `yaml:"format"`
}

// LoadCatalog reads an authored strategy catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog builds a catalog from YAML bytes. Unknown activity kinds and
// duplicate strategy names are load errors; a missing strategy name is
// rejected here rather than surfacing later as an unresolvable reference.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	strategies := make([]*core.Strategy, 0, len(doc.Strategies))
	for _, sd := range doc.Strategies {
		s := &core.Strategy{
			Name:          sd.Name,
			Stress:        sd.Stress,
			Difficulty:    sd.Difficulty,
			ResetScenario: sd.ResetScenario,
		}
		for i, ad := range sd.Activities {
			activity, err := buildActivity(ad)
			if err != nil {
				return nil, fmt.Errorf("strategy %q activity %d: %w", sd.Name, i, err)
			}
			s.Activities = append(s.Activities, activity)
		}
		strategies = append(strategies, s)
	}

	return NewCatalog(strategies...)
}

func buildActivity(ad activityDoc) (core.Activity, error) {
	delay := time.Duration(ad.DelaySeconds * float64(time.Second))

	switch ad.Kind {
	case "feedback":
		fb := core.FeedbackActivity{
			Message:                  ad.Message,
			DeliverToController:      ad.DeliverToController,
			RequestUsingSessionState: ad.RequestUsingSessionState,
			PostDelay:                delay,
		}
		if ad.Audio != nil {
			fb.Audio = &core.AudioPresentation{MP3File: ad.Audio.MP3, OGGFile: ad.Audio.OGG}
		}
		if fb.Message == "" && fb.Audio == nil && !fb.RequestUsingSessionState {
			return nil, fmt.Errorf("feedback requires a message, audio, or session-state content")
		}
		return fb, nil

	case "media":
		if len(ad.Items) == 0 && !ad.RequestUsingSessionState {
			return nil, fmt.Errorf("media requires at least one item")
		}
		m := core.MidLessonMediaActivity{
			RequestUsingSessionState: ad.RequestUsingSessionState,
			PostDelay:                delay,
		}
		for _, item := range ad.Items {
			format := core.ContentType(item.Format)
			if format == "" {
				format = core.ContentTypeWebpage
			}
			m.Items = append(m.Items, core.MediaItem{Name: item.Name, Address: item.Address, Format: format})
		}
		return m, nil

	case "scenarioAdaptation":
		return core.ScenarioAdaptationActivity{Description: ad.Description, Parameters: ad.Parameters}, nil

	case "assessment":
		if ad.Node == "" {
			return nil, fmt.Errorf("assessment requires a node name")
		}
		return core.PerformanceAssessmentActivity{NodeName: ad.Node, Level: ad.Level}, nil

	case "branch":
		if ad.Target == "" {
			return nil, fmt.Errorf("branch requires a target")
		}
		return core.BranchAdaptationActivity{Target: ad.Target}, nil

	case "doNothing":
		return core.NoOpActivity{}, nil

	default:
		return nil, fmt.Errorf("unknown activity kind %q", ad.Kind)
	}
}
