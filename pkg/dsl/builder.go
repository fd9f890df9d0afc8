package dsl

import (
	"fmt"

	"github.com/aretw0/maturity/internal/validator"
	"github.com/aretw0/maturity/pkg/adapters/memory"
	"github.com/aretw0/maturity/pkg/domain"
)

// DefaultPillarBands are used when no pillar bands are declared.
var DefaultPillarBands = []domain.LevelBand{
	{ID: "low", Label: "Low", MinScore: 0, MaxScore: 39},
	{ID: "mid", Label: "Intermediate", MinScore: 40, MaxScore: 69},
	{ID: "high", Label: "High", MinScore: 70, MaxScore: 100},
}

// DefaultGlobalBands are used when no global bands are declared.
var DefaultGlobalBands = []domain.LevelBand{
	{ID: "beginner", Label: "Beginner", MinScore: 0, MaxScore: 39},
	{ID: "intermediate", Label: "Intermediate", MinScore: 40, MaxScore: 69},
	{ID: "advanced", Label: "Advanced", MinScore: 70, MaxScore: 100},
}

// Builder manages the questionnaire construction.
type Builder struct {
	q       *domain.Questionnaire
	pillars map[domain.PillarID]*PillarBuilder
}

// New creates a new questionnaire builder.
func New() *Builder {
	return &Builder{
		q: &domain.Questionnaire{
			Questions: make(map[domain.QuestionID]*domain.Question),
			Recommendations: domain.Recommendations{
				ByPillarLevel: make(map[domain.PillarID]map[domain.LevelID][]string),
				ByTag:         make(map[string][]string),
				TagPillars:    make(map[string]domain.PillarID),
			},
		},
		pillars: make(map[domain.PillarID]*PillarBuilder),
	}
}

// Entry sets the entry question. Defaults to the first question added.
func (b *Builder) Entry(id domain.QuestionID) *Builder {
	b.q.Metadata.EntryQuestionID = id
	return b
}

// Title sets the questionnaire title.
func (b *Builder) Title(title string) *Builder {
	b.q.Metadata.Title = title
	return b
}

// Pillar declares a pillar with weight 1.
// If the pillar already exists, it returns the existing builder.
func (b *Builder) Pillar(id domain.PillarID, name string) *PillarBuilder {
	if pb, ok := b.pillars[id]; ok {
		return pb
	}
	b.q.Pillars = append(b.q.Pillars, domain.Pillar{ID: id, Name: name, Weight: 1})
	pb := &PillarBuilder{b: b, index: len(b.q.Pillars) - 1}
	b.pillars[id] = pb
	return pb
}

// Question declares a question of the given pillar.
// If the question already exists, it returns a builder for it.
func (b *Builder) Question(id domain.QuestionID, pillar domain.PillarID) *QuestionBuilder {
	if q, ok := b.q.Questions[id]; ok {
		return &QuestionBuilder{q: q}
	}
	q := &domain.Question{ID: id, PillarID: pillar, Text: string(id)}
	b.q.Questions[id] = q
	b.q.Order = append(b.q.Order, id)
	if b.q.Metadata.EntryQuestionID == "" {
		b.q.Metadata.EntryQuestionID = id
	}
	return &QuestionBuilder{q: q}
}

// PillarBands replaces the pillar level bands.
func (b *Builder) PillarBands(bands ...domain.LevelBand) *Builder {
	b.q.Levels.Pillar = bands
	return b
}

// GlobalBands replaces the global level bands.
func (b *Builder) GlobalBands(bands ...domain.LevelBand) *Builder {
	b.q.Levels.Global = bands
	return b
}

// Describe attaches a description to a level id.
func (b *Builder) Describe(level domain.LevelID, text string) *Builder {
	if b.q.Levels.Descriptions == nil {
		b.q.Levels.Descriptions = make(map[domain.LevelID]string)
	}
	b.q.Levels.Descriptions[level] = text
	return b
}

// Recommend adds pillar/level recommendations.
func (b *Builder) Recommend(pillar domain.PillarID, level domain.LevelID, texts ...string) *Builder {
	byLevel, ok := b.q.Recommendations.ByPillarLevel[pillar]
	if !ok {
		byLevel = make(map[domain.LevelID][]string)
		b.q.Recommendations.ByPillarLevel[pillar] = byLevel
	}
	byLevel[level] = append(byLevel[level], texts...)
	return b
}

// RecommendTag adds tag-triggered recommendations.
func (b *Builder) RecommendTag(tag string, texts ...string) *Builder {
	b.q.Recommendations.ByTag[tag] = append(b.q.Recommendations.ByTag[tag], texts...)
	return b
}

// TagPillar attributes a tag to a pillar explicitly.
func (b *Builder) TagPillar(tag string, pillar domain.PillarID) *Builder {
	b.q.Recommendations.TagPillars[tag] = pillar
	return b
}

// Questionnaire validates and returns the built questionnaire.
func (b *Builder) Questionnaire() (*domain.Questionnaire, error) {
	if len(b.q.Levels.Pillar) == 0 {
		b.q.Levels.Pillar = append([]domain.LevelBand(nil), DefaultPillarBands...)
	}
	if len(b.q.Levels.Global) == 0 {
		b.q.Levels.Global = append([]domain.LevelBand(nil), DefaultGlobalBands...)
	}
	if err := validator.Validate(b.q); err != nil {
		return nil, err
	}
	return b.q, nil
}

// Build compiles the questionnaire into a memory loader.
func (b *Builder) Build() (*memory.Loader, error) {
	q, err := b.Questionnaire()
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return memory.NewLoader(q), nil
}

// MustQuestionnaire is like Questionnaire but panics on error. Intended for tests.
func (b *Builder) MustQuestionnaire() *domain.Questionnaire {
	q, err := b.Questionnaire()
	if err != nil {
		panic(err)
	}
	return q
}
