package scoring

import (
	"sort"
	"strings"

	"github.com/aretw0/maturity/pkg/domain"
)

// Attribution used when a tag cannot be traced to a pillar.
const (
	GeneralName = "General"
	GeneralIcon = "💡"
)

// TagPriority ranks tag-triggered advice above any pillar-level advice.
const TagPriority = 0

// Level advice ranks 1 for the lowest band, 2 for the next and 3 for every
// band above it.
const maxLevelPriority = 3

func levelPriority(bands []domain.LevelBand, id domain.LevelID) int {
	return min(max(LevelRank(bands, id)+1, 1), maxLevelPriority)
}

func (s *Scorer) recommend(q *domain.Questionnaire, pillars []domain.PillarResult, answers []domain.AnswerRecord) []domain.Recommendation {
	var candidates []domain.Recommendation

	// 1. Pillar level tables, for pillars with at least one answer.
	for _, pr := range pillars {
		if pr.QuestionsAnswered == 0 {
			continue
		}
		texts := q.Recommendations.ByPillarLevel[pr.PillarID][pr.Level.ID]
		priority := levelPriority(q.Levels.Pillar, pr.Level.ID)
		for _, text := range texts {
			candidates = append(candidates, domain.Recommendation{
				Text:       text,
				PillarID:   pr.PillarID,
				PillarName: pr.Name,
				PillarIcon: pr.Icon,
				Priority:   priority,
				Source:     domain.SourcePillarLevel,
			})
		}
	}

	// 2. Tags, in answer order.
	for _, a := range answers {
		for _, tag := range a.Tags {
			texts := q.Recommendations.ByTag[tag]
			if len(texts) == 0 {
				continue
			}
			p, ok := TagPillar(q, tag)
			for _, text := range texts {
				rec := domain.Recommendation{
					Text:       text,
					PillarName: GeneralName,
					PillarIcon: GeneralIcon,
					Priority:   TagPriority,
					Source:     domain.SourceTag,
					Tag:        tag,
				}
				if ok {
					rec.PillarID = p.ID
					rec.PillarName = p.Name
					rec.PillarIcon = p.Icon
				}
				candidates = append(candidates, rec)
			}
		}
	}

	ranked := Dedupe(candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority < ranked[j].Priority
	})
	if s.policy.MaxRecommendations >= 0 && len(ranked) > s.policy.MaxRecommendations {
		ranked = ranked[:s.policy.MaxRecommendations]
	}
	return ranked
}

// Dedupe collapses recommendations with identical text.
// The survivor keeps the position of the first occurrence and the metadata of the last.
func Dedupe(recs []domain.Recommendation) []domain.Recommendation {
	index := make(map[string]int, len(recs))
	out := make([]domain.Recommendation, 0, len(recs))
	for _, r := range recs {
		if i, ok := index[r.Text]; ok {
			out[i] = r
			continue
		}
		index[r.Text] = len(out)
		out = append(out, r)
	}
	return out
}

// TagPillar attributes a tag to a pillar.
// An explicit tag_pillars entry wins. Otherwise the tag prefix up to the first
// underscore, upper-cased, is matched against pillar ids in declaration order,
// by equality or as a prefix of the id.
func TagPillar(q *domain.Questionnaire, tag string) (domain.Pillar, bool) {
	if id, ok := q.Recommendations.TagPillars[tag]; ok {
		if p, found := q.Pillar(id); found {
			return p, true
		}
	}

	prefix, _, _ := strings.Cut(tag, "_")
	prefix = strings.ToUpper(prefix)
	for _, p := range q.Pillars {
		id := string(p.ID)
		if id == prefix || strings.HasPrefix(id, prefix) {
			return p, true
		}
	}
	return domain.Pillar{}, false
}
