package domain

// MaxOptionScore is the top of the per-question scoring scale (0..4).
const MaxOptionScore = 4

// PillarID identifies a thematic grouping of questions.
type PillarID string

// QuestionID identifies a question node in the graph.
type QuestionID string

// OptionID identifies an option within a question.
type OptionID string

// LevelID identifies a maturity band (e.g. "low", "mid", "high").
type LevelID string

// Pillar is a thematic grouping of questions contributing to one sub-score.
type Pillar struct {
	ID     PillarID `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Icon   string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Weight float64  `json:"weight" yaml:"weight"`
}

// Option is a selectable answer. An empty NextQuestionID makes it terminal.
type Option struct {
	ID             OptionID   `json:"id" yaml:"id"`
	Label          string     `json:"label" yaml:"label"`
	Score          int        `json:"score" yaml:"score"`
	Tags           []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	NextQuestionID QuestionID `json:"next_question_id,omitempty" yaml:"next_question_id,omitempty"`
}

// IsTerminal reports whether choosing this option ends the traversal.
func (o Option) IsTerminal() bool {
	return o.NextQuestionID == ""
}

// Question is a node of the questionnaire graph. Immutable once loaded.
type Question struct {
	ID       QuestionID `json:"id" yaml:"id"`
	Text     string     `json:"text" yaml:"text"`
	Help     string     `json:"help,omitempty" yaml:"help,omitempty"`
	PillarID PillarID   `json:"pillar_id" yaml:"pillar_id"`
	Options  []Option   `json:"options" yaml:"options"`
}

// Option returns the option with the given id.
func (q *Question) Option(id OptionID) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// LevelBand maps an inclusive percentage range to a named maturity tier.
type LevelBand struct {
	ID       LevelID `json:"id" yaml:"id"`
	Label    string  `json:"label" yaml:"label"`
	MinScore int     `json:"min_score" yaml:"min_score"`
	MaxScore int     `json:"max_score" yaml:"max_score"`
}

// Contains reports whether the percentage falls inside the band.
func (b LevelBand) Contains(percentage int) bool {
	return percentage >= b.MinScore && percentage <= b.MaxScore
}

// Levels holds the two independent band sets and optional descriptions.
type Levels struct {
	Pillar       []LevelBand        `json:"pillar" yaml:"pillar"`
	Global       []LevelBand        `json:"global" yaml:"global"`
	Descriptions map[LevelID]string `json:"descriptions,omitempty" yaml:"descriptions,omitempty"`
}

// Recommendations holds the lookup tables used to build advice.
type Recommendations struct {
	ByPillarLevel map[PillarID]map[LevelID][]string `json:"by_pillar_level" yaml:"by_pillar_level"`
	ByTag         map[string][]string               `json:"by_tag" yaml:"by_tag"`
	// TagPillars attributes a tag to a pillar explicitly, bypassing the prefix rule.
	TagPillars map[string]PillarID `json:"tag_pillars,omitempty" yaml:"tag_pillars,omitempty"`
}

// Metadata describes the questionnaire document.
type Metadata struct {
	EntryQuestionID QuestionID `json:"entry_question_id" yaml:"entry_question_id"`
	Title           string     `json:"title,omitempty" yaml:"title,omitempty"`
	Description     string     `json:"description,omitempty" yaml:"description,omitempty"`
	Version         string     `json:"version,omitempty" yaml:"version,omitempty"`
}

// Questionnaire is the loaded, validated configuration document.
// It is read-only after loading and safe to share between sessions.
type Questionnaire struct {
	Metadata        Metadata                 `json:"metadata"`
	Pillars         []Pillar                 `json:"pillars"`
	Questions       map[QuestionID]*Question `json:"questions"`
	Levels          Levels                   `json:"levels"`
	Recommendations Recommendations          `json:"recommendations"`

	// Order preserves the declaration order of Questions.
	Order []QuestionID `json:"order"`
}

// Question returns the question with the given id.
func (q *Questionnaire) Question(id QuestionID) (*Question, bool) {
	qq, ok := q.Questions[id]
	return qq, ok
}

// Pillar returns the pillar with the given id.
func (q *Questionnaire) Pillar(id PillarID) (Pillar, bool) {
	for _, p := range q.Pillars {
		if p.ID == id {
			return p, true
		}
	}
	return Pillar{}, false
}

// QuestionCount is the number of declared questions, an upper bound on any path length.
func (q *Questionnaire) QuestionCount() int {
	return len(q.Questions)
}

// QuestionsInPillar counts the declared questions of a pillar.
func (q *Questionnaire) QuestionsInPillar(id PillarID) int {
	n := 0
	for _, qq := range q.Questions {
		if qq.PillarID == id {
			n++
		}
	}
	return n
}

// OrderedQuestions returns questions in declaration order.
func (q *Questionnaire) OrderedQuestions() []*Question {
	out := make([]*Question, 0, len(q.Order))
	for _, id := range q.Order {
		if qq, ok := q.Questions[id]; ok {
			out = append(out, qq)
		}
	}
	return out
}
