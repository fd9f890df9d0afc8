package dto

// Document is the wire shape of a questionnaire document.
// It uses "mapstructure" tags so JSON, YAML, TOML and frontmatter sources
// decode through the same generic-map path.
type Document struct {
	Metadata        Metadata            `json:"metadata" mapstructure:"metadata"`
	Pillars         []Pillar            `json:"pillars" mapstructure:"pillars"`
	Questions       map[string]Question `json:"questions" mapstructure:"questions"`
	Levels          Levels              `json:"levels" mapstructure:"levels"`
	Recommendations Recommendations     `json:"recommendations" mapstructure:"recommendations"`
}

type Metadata struct {
	EntryQuestionID string `json:"entry_question_id" mapstructure:"entry_question_id"`
	Title           string `json:"title" mapstructure:"title"`
	Description     string `json:"description" mapstructure:"description"`
	Version         string `json:"version" mapstructure:"version"`
}

type Pillar struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
	Icon string `json:"icon" mapstructure:"icon"`
	// Weight is a pointer so an absent weight can default to 1.
	Weight *float64 `json:"weight" mapstructure:"weight"`
}

// Question is one entry of the questions table, or the frontmatter of a
// question file in a directory-authored questionnaire.
type Question struct {
	ID       string   `json:"id" mapstructure:"id"`
	Text     string   `json:"text" mapstructure:"text"`
	Help     string   `json:"help" mapstructure:"help"`
	PillarID string   `json:"pillar_id" mapstructure:"pillar_id"`
	Options  []Option `json:"options" mapstructure:"options"`
}

type Option struct {
	ID             string   `json:"id" mapstructure:"id"`
	Label          string   `json:"label" mapstructure:"label"`
	Score          int      `json:"score" mapstructure:"score"`
	Tags           []string `json:"tags" mapstructure:"tags"`
	NextQuestionID string   `json:"next_question_id" mapstructure:"next_question_id"`
}

type LevelBand struct {
	ID       string `json:"id" mapstructure:"id"`
	Label    string `json:"label" mapstructure:"label"`
	MinScore int    `json:"min_score" mapstructure:"min_score"`
	MaxScore int    `json:"max_score" mapstructure:"max_score"`
}

type Levels struct {
	Pillar       []LevelBand       `json:"pillar" mapstructure:"pillar"`
	Global       []LevelBand       `json:"global" mapstructure:"global"`
	Descriptions map[string]string `json:"descriptions" mapstructure:"descriptions"`
}

type Recommendations struct {
	ByPillarLevel map[string]map[string][]string `json:"by_pillar_level" mapstructure:"by_pillar_level"`
	ByTag         map[string][]string            `json:"by_tag" mapstructure:"by_tag"`
	TagPillars    map[string]string              `json:"tag_pillars" mapstructure:"tag_pillars"`
}
