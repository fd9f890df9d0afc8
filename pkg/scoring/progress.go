package scoring

import "github.com/aretw0/maturity/pkg/domain"

// PillarProgress reports the live score of every pillar with at least one answer.
// Unlike Compute, the denominator counts every declared question of the pillar,
// so the figure grows as the respondent moves through it.
func PillarProgress(q *domain.Questionnaire, answers []domain.AnswerRecord) []domain.PillarProgress {
	var out []domain.PillarProgress
	for _, p := range q.Pillars {
		score, n := 0, 0
		for _, a := range answers {
			if a.PillarID == p.ID {
				score += a.Score
				n++
			}
		}
		if n == 0 {
			continue
		}
		den := float64(q.QuestionsInPillar(p.ID) * domain.MaxOptionScore)
		out = append(out, domain.PillarProgress{
			PillarID:   p.ID,
			Name:       p.Name,
			Icon:       p.Icon,
			Percentage: min(100, percentage(float64(score), den)),
		})
	}
	return out
}

// Progress is the answered share of all declared questions, as a rounded percentage.
func Progress(q *domain.Questionnaire, answered int) int {
	return percentage(float64(answered), float64(q.QuestionCount()))
}
