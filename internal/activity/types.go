package activity

import (
	"time"
)

// State is the lifecycle state of an Activity.
type State string

const (
	// StateSuggested is held only for the duration of a generation round.
	StateSuggested State = "suggested"

	StateSaved      State = "saved"
	StateDiscarded  State = "discarded"
	StateHistorical State = "historical"
)

// Persisted reports whether activities in this state live in a student's
// stored collections.
func (s State) Persisted() bool {
	return s == StateSaved || s == StateDiscarded || s == StateHistorical
}

// Source records how an activity came to exist.
type Source string

const (
	SourceAI                  Source = "ai"
	SourceFallbackTemplate    Source = "fallback-template"
	SourceFallbackSynthesized Source = "fallback-synthesized"
	SourceManual              Source = "manual"
)

// Backup reports whether the activity was produced without the external generator.
func (s Source) Backup() bool {
	return s == SourceFallbackTemplate || s == SourceFallbackSynthesized
}

// BackupNote is attached to the notes of every fallback-generated activity.
const BackupNote = "Generated via backup"

// Category is a developmental-skill category. The closed set lives in
// package skills; anything else is rejected at normalization.
type Category string

const (
	CategoryCognitive       Category = "Cognitive"
	CategoryLanguage        Category = "Language"
	CategoryPhysical        Category = "Physical"
	CategorySocialEmotional Category = "Social-Emotional"
	CategoryCreative        Category = "Creative"
	CategoryMathematics     Category = "Mathematics"
	CategoryScience         Category = "Science"
	CategorySensory         Category = "Sensory"
	CategoryLifeSkills      Category = "Life Skills"
)

// Skill is one canonical {name, category} pair.
type Skill struct {
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`
}

// Activity is one educational activity suggestion or record.
type Activity struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id,omitempty"`

	// Title is unique within a student's active suggestion batch.
	Title     string  `json:"title"`
	Rationale string  `json:"rationale"`
	Skills    []Skill `json:"skills"`
	Notes     string  `json:"notes,omitempty"`

	Theme      string   `json:"theme,omitempty"`
	Materials  []string `json:"materials,omitempty"`
	Steps      []string `json:"steps,omitempty"`
	Outcomes   []string `json:"outcomes,omitempty"`
	SafetyTips []string `json:"safety_tips,omitempty"`

	Source Source `json:"source"`
	State  State  `json:"state"`

	// Timestamp is set on state transition, not at generation.
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// Titles returns the titles of the given activities in order.
func Titles(acts []Activity) []string {
	out := make([]string, len(acts))
	for i, a := range acts {
		out[i] = a.Title
	}
	return out
}
