package loam

// KindQuestionnaire marks the manifest document of a questionnaire directory.
const KindQuestionnaire = "questionnaire"

// DocumentMetadata is the frontmatter of a document in a questionnaire directory.
// A directory holds exactly one manifest (kind: questionnaire) carrying the
// questionnaire-wide tables, and one document per question whose body is the
// question text.
type DocumentMetadata struct {
	Kind string `json:"kind" mapstructure:"kind"`
	ID   string `json:"id" mapstructure:"id"`

	// Question documents
	PillarID string           `json:"pillar_id" mapstructure:"pillar_id"`
	Text     string           `json:"text" mapstructure:"text"`
	Help     string           `json:"help" mapstructure:"help"`
	Options  []map[string]any `json:"options" mapstructure:"options"`

	// Manifest
	Metadata        map[string]any   `json:"metadata" mapstructure:"metadata"`
	Pillars         []map[string]any `json:"pillars" mapstructure:"pillars"`
	Levels          map[string]any   `json:"levels" mapstructure:"levels"`
	Recommendations map[string]any   `json:"recommendations" mapstructure:"recommendations"`
	// Order lists question ids in presentation order.
	Order []string `json:"order" mapstructure:"order"`
}

func (m DocumentMetadata) isManifest() bool {
	return m.Kind == KindQuestionnaire
}
