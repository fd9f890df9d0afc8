package scoring

import (
	"math"

	"github.com/aretw0/maturity/pkg/domain"
)

// Policy holds the fixed constants of the scoring rules.
type Policy struct {
	// MinReliableAnswers is the answered-question count required for a reliable result.
	MinReliableAnswers int
	// MinReliablePillars is the number of covered pillars required for a reliable result.
	MinReliablePillars int
	// MaxRecommendations caps the ranked recommendation list.
	MaxRecommendations int
}

// DefaultPolicy returns the standard thresholds (10 answers, 5 pillars, 8 recommendations).
func DefaultPolicy() Policy {
	return Policy{
		MinReliableAnswers: 10,
		MinReliablePillars: 5,
		MaxRecommendations: 8,
	}
}

// Scorer computes Results under a Policy.
type Scorer struct {
	policy Policy
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithPolicy overrides the default policy.
func WithPolicy(p Policy) Option {
	return func(s *Scorer) {
		s.policy = p
	}
}

// New creates a Scorer.
func New(opts ...Option) *Scorer {
	s := &Scorer{policy: DefaultPolicy()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compute scores answers with the default policy.
func Compute(q *domain.Questionnaire, answers []domain.AnswerRecord) *domain.Results {
	return New().Compute(q, answers)
}

// Compute builds a fresh Results for the answer set.
// Answers are expected in history order; tag recommendations follow that order.
func (s *Scorer) Compute(q *domain.Questionnaire, answers []domain.AnswerRecord) *domain.Results {
	res := &domain.Results{
		Pillars:         make([]domain.PillarResult, 0, len(q.Pillars)),
		AnsweredCount:   len(answers),
		Recommendations: []domain.Recommendation{},
	}

	for _, p := range q.Pillars {
		pr := scorePillar(q, p, answers)
		res.Pillars = append(res.Pillars, pr)
		res.TotalScoreWeighted += float64(pr.Score) * p.Weight
		res.TotalMaxWeighted += float64(pr.MaxScore) * p.Weight
	}

	res.OverallPercentage = percentage(res.TotalScoreWeighted, res.TotalMaxWeighted)
	res.GlobalLevel = MatchBand(q.Levels.Global, res.OverallPercentage)
	res.LevelDescription = q.Levels.Descriptions[res.GlobalLevel.ID]

	res.Reliability = s.reliability(res)
	res.Recommendations = s.recommend(q, res.Pillars, answers)
	res.Tags = collectTags(answers)

	return res
}

func scorePillar(q *domain.Questionnaire, p domain.Pillar, answers []domain.AnswerRecord) domain.PillarResult {
	pr := domain.PillarResult{
		PillarID: p.ID,
		Name:     p.Name,
		Icon:     p.Icon,
		Weight:   p.Weight,
	}

	for _, a := range answers {
		if a.PillarID != p.ID {
			continue
		}
		pr.Score += a.Score
		pr.QuestionsAnswered++
	}

	if pr.QuestionsAnswered == 0 {
		pr.Level = LowestBand(q.Levels.Pillar)
		return pr
	}

	pr.MaxScore = pr.QuestionsAnswered * domain.MaxOptionScore
	pr.Percentage = percentage(float64(pr.Score), float64(pr.MaxScore))
	pr.Level = MatchBand(q.Levels.Pillar, pr.Percentage)
	return pr
}

// percentage rounds 100*num/den half up, yielding 0 for a zero denominator.
func percentage(num, den float64) int {
	if den <= 0 {
		return 0
	}
	return Round(num * 100 / den)
}

// Round rounds half away from zero for non-negative inputs.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

func collectTags(answers []domain.AnswerRecord) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, a := range answers {
		for _, t := range a.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags
}
