package domain

// ReliabilityStatus is the coarse confidence verdict on a result set.
type ReliabilityStatus string

const (
	ReliabilityReliable ReliabilityStatus = "reliable"
	ReliabilityPartial  ReliabilityStatus = "partial"
)

// RecommendationSource tells which lookup table produced a recommendation.
type RecommendationSource string

const (
	SourcePillarLevel RecommendationSource = "pillar_level"
	SourceTag         RecommendationSource = "tag"
)

// PillarResult is the score breakdown of one pillar.
type PillarResult struct {
	PillarID          PillarID  `json:"pillar_id"`
	Name              string    `json:"name"`
	Icon              string    `json:"icon,omitempty"`
	Weight            float64   `json:"weight"`
	Score             int       `json:"score"`
	MaxScore          int       `json:"max_score"`
	Percentage        int       `json:"percentage"`
	Level             LevelBand `json:"level"`
	QuestionsAnswered int       `json:"questions_answered"`
}

// Reliability reports whether enough breadth and depth of answers exists.
// MissingQuestions and MissingPillars are the shortfalls, zero when met.
type Reliability struct {
	Status           ReliabilityStatus `json:"status"`
	AnsweredCount    int               `json:"answered_count"`
	PillarsCovered   int               `json:"pillars_covered"`
	MissingQuestions int               `json:"missing_questions,omitempty"`
	MissingPillars   int               `json:"missing_pillars,omitempty"`
}

// Recommendation is one ranked piece of advice.
// An empty PillarID means the generic bucket.
type Recommendation struct {
	Text       string               `json:"text"`
	PillarID   PillarID             `json:"pillar_id,omitempty"`
	PillarName string               `json:"pillar_name"`
	PillarIcon string               `json:"pillar_icon,omitempty"`
	Priority   int                  `json:"priority"`
	Source     RecommendationSource `json:"source"`
	Tag        string               `json:"tag,omitempty"`
}

// Results is the output of scoring an answer set.
type Results struct {
	Pillars            []PillarResult   `json:"pillars"`
	TotalScoreWeighted float64          `json:"total_score_weighted"`
	TotalMaxWeighted   float64          `json:"total_max_weighted"`
	OverallPercentage  int              `json:"overall_percentage"`
	GlobalLevel        LevelBand        `json:"global_level"`
	LevelDescription   string           `json:"level_description,omitempty"`
	Reliability        Reliability      `json:"reliability"`
	Recommendations    []Recommendation `json:"recommendations"`
	Tags               []string         `json:"tags,omitempty"`
	AnsweredCount      int              `json:"answered_count"`
}

// Pillar returns the result of the given pillar.
func (r *Results) Pillar(id PillarID) (PillarResult, bool) {
	for _, p := range r.Pillars {
		if p.PillarID == id {
			return p, true
		}
	}
	return PillarResult{}, false
}
