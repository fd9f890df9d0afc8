package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/schema"
)

// Report collects the outcome of checking a questionnaire.
// Errors make the questionnaire unusable. Warnings do not.
type Report struct {
	Errors   schema.AggregateError
	Warnings []string
}

// Err returns the errors wrapped in domain.ErrQuestionnaireInvalid, or nil.
func (r *Report) Err() error {
	if err := r.Errors.ErrOrNil(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrQuestionnaireInvalid, err)
	}
	return nil
}

// Validate checks referential integrity and returns the first-class error, if any.
func Validate(q *domain.Questionnaire) error {
	return Check(q).Err()
}

// Check runs every rule against the questionnaire.
func Check(q *domain.Questionnaire) *Report {
	r := &Report{}

	pillarIDs := checkPillars(q, r)
	checkQuestions(q, pillarIDs, r)
	levelIDs := checkBands("levels.pillar", q.Levels.Pillar, r)
	checkBands("levels.global", q.Levels.Global, r)
	checkRecommendations(q, pillarIDs, levelIDs, r)

	// Graph rules only make sense once the entry exists.
	if _, ok := q.Questions[q.Metadata.EntryQuestionID]; !ok {
		r.Errors.Add("metadata.entry_question_id", "unknown question", q.Metadata.EntryQuestionID)
		return r
	}
	checkCycles(q, r)

	for _, id := range Unreachable(q) {
		r.Warnings = append(r.Warnings, fmt.Sprintf("question %q is unreachable from %q", id, q.Metadata.EntryQuestionID))
	}
	return r
}

func checkPillars(q *domain.Questionnaire, r *Report) map[domain.PillarID]bool {
	ids := make(map[domain.PillarID]bool, len(q.Pillars))
	if len(q.Pillars) == 0 {
		r.Errors.Add("pillars", "at least one pillar is required", nil)
	}
	for i, p := range q.Pillars {
		key := fmt.Sprintf("pillars[%d]", i)
		if p.ID == "" {
			r.Errors.Add(key+".id", "required", nil)
			continue
		}
		if ids[p.ID] {
			r.Errors.Add(key+".id", "duplicate pillar id", p.ID)
		}
		ids[p.ID] = true
		if p.Weight < 0 {
			r.Errors.Add(key+".weight", "must be >= 0", p.Weight)
		}
	}
	return ids
}

func checkQuestions(q *domain.Questionnaire, pillars map[domain.PillarID]bool, r *Report) {
	if len(q.Questions) == 0 {
		r.Errors.Add("questions", "at least one question is required", nil)
	}
	for _, qq := range q.OrderedQuestions() {
		key := "questions." + string(qq.ID)
		if !pillars[qq.PillarID] {
			r.Errors.Add(key+".pillar_id", "unknown pillar", qq.PillarID)
		}
		if len(qq.Options) == 0 {
			r.Errors.Add(key+".options", "at least one option is required", nil)
		}
		seen := make(map[domain.OptionID]bool, len(qq.Options))
		for i, o := range qq.Options {
			okey := fmt.Sprintf("%s.options[%d]", key, i)
			if o.ID == "" {
				r.Errors.Add(okey+".id", "required", nil)
			} else if seen[o.ID] {
				r.Errors.Add(okey+".id", "duplicate option id", o.ID)
			}
			seen[o.ID] = true
			if o.Score < 0 || o.Score > domain.MaxOptionScore {
				r.Errors.Add(okey+".score", fmt.Sprintf("must be between 0 and %d", domain.MaxOptionScore), o.Score)
			}
			if !o.IsTerminal() {
				if _, ok := q.Questions[o.NextQuestionID]; !ok {
					r.Errors.Add(okey+".next_question_id", "unknown question", o.NextQuestionID)
				}
			}
		}
	}
}

func checkBands(key string, bands []domain.LevelBand, r *Report) map[domain.LevelID]bool {
	ids := make(map[domain.LevelID]bool, len(bands))
	if len(bands) == 0 {
		r.Errors.Add(key, "at least one band is required", nil)
		return ids
	}
	for i, b := range bands {
		bkey := fmt.Sprintf("%s[%d]", key, i)
		if b.ID == "" {
			r.Errors.Add(bkey+".id", "required", nil)
		} else if ids[b.ID] {
			r.Errors.Add(bkey+".id", "duplicate level id", b.ID)
		}
		ids[b.ID] = true
		if b.MinScore < 0 || b.MaxScore > 100 || b.MinScore > b.MaxScore {
			r.Errors.Add(bkey, "range must satisfy 0 <= min_score <= max_score <= 100", fmt.Sprintf("%d-%d", b.MinScore, b.MaxScore))
		}
	}
	for _, gap := range gaps(bands) {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s does not cover %s; the lowest band is used there", key, gap))
	}
	return ids
}

// gaps lists the integer percentages in [0,100] no band covers, as ranges.
func gaps(bands []domain.LevelBand) []string {
	var out []string
	start := -1
	for p := 0; p <= 101; p++ {
		covered := p == 101 || slices.ContainsFunc(bands, func(b domain.LevelBand) bool { return b.Contains(p) })
		switch {
		case !covered && start < 0:
			start = p
		case covered && start >= 0:
			if start == p-1 {
				out = append(out, fmt.Sprintf("%d", start))
			} else {
				out = append(out, fmt.Sprintf("%d-%d", start, p-1))
			}
			start = -1
		}
	}
	return out
}

func checkRecommendations(q *domain.Questionnaire, pillars map[domain.PillarID]bool, levels map[domain.LevelID]bool, r *Report) {
	// Tables are maps; sort so reports are stable.
	var found schema.AggregateError
	for pid, byLevel := range q.Recommendations.ByPillarLevel {
		key := "recommendations.by_pillar_level." + string(pid)
		if !pillars[pid] {
			found.Add(key, "unknown pillar", pid)
		}
		for lid := range byLevel {
			if !levels[lid] {
				found.Add(key+"."+string(lid), "unknown pillar level", lid)
			}
		}
	}
	for tag, pid := range q.Recommendations.TagPillars {
		if !pillars[pid] {
			found.Add("recommendations.tag_pillars."+tag, "unknown pillar", pid)
		}
	}
	slices.SortFunc(found.Errors, func(a, b error) int {
		return strings.Compare(a.Error(), b.Error())
	})
	r.Errors.Errors = append(r.Errors.Errors, found.Errors...)
}

// checkCycles walks the graph from the entry and reports the first back edge found
// on every cyclic path.
func checkCycles(q *domain.Questionnaire, r *Report) {
	const (
		white = iota
		grey
		black
	)
	color := make(map[domain.QuestionID]int, len(q.Questions))
	var path []domain.QuestionID

	var visit func(id domain.QuestionID)
	visit = func(id domain.QuestionID) {
		color[id] = grey
		path = append(path, id)
		qq := q.Questions[id]
		for _, o := range qq.Options {
			next := o.NextQuestionID
			if o.IsTerminal() {
				continue
			}
			if _, ok := q.Questions[next]; !ok {
				continue
			}
			switch color[next] {
			case white:
				visit(next)
			case grey:
				start := slices.Index(path, next)
				cycle := append(slices.Clone(path[start:]), next)
				r.Errors.Add("questions."+string(id), "cycle detected", joinIDs(cycle))
			}
		}
		path = path[:len(path)-1]
		color[id] = black
	}
	visit(q.Metadata.EntryQuestionID)
}

// Unreachable returns declared questions that no path from the entry visits,
// in declaration order.
func Unreachable(q *domain.Questionnaire) []domain.QuestionID {
	seen := Reachable(q)
	var out []domain.QuestionID
	for _, id := range q.Order {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

// Reachable returns the set of questions reachable from the entry.
func Reachable(q *domain.Questionnaire) map[domain.QuestionID]bool {
	seen := make(map[domain.QuestionID]bool)
	queue := []domain.QuestionID{q.Metadata.EntryQuestionID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		qq, ok := q.Questions[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		for _, o := range qq.Options {
			if !o.IsTerminal() && !seen[o.NextQuestionID] {
				queue = append(queue, o.NextQuestionID)
			}
		}
	}
	return seen
}

func joinIDs(ids []domain.QuestionID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, " -> ")
}
