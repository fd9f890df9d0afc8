package scoring

import "github.com/aretw0/maturity/pkg/domain"

func (s *Scorer) reliability(res *domain.Results) domain.Reliability {
	covered := 0
	for _, p := range res.Pillars {
		if p.QuestionsAnswered > 0 {
			covered++
		}
	}

	rel := domain.Reliability{
		AnsweredCount:  res.AnsweredCount,
		PillarsCovered: covered,
	}

	rel.MissingQuestions = max(0, s.policy.MinReliableAnswers-res.AnsweredCount)
	rel.MissingPillars = max(0, s.policy.MinReliablePillars-covered)

	if rel.MissingQuestions == 0 && rel.MissingPillars == 0 {
		rel.Status = domain.ReliabilityReliable
	} else {
		rel.Status = domain.ReliabilityPartial
	}
	return rel
}
