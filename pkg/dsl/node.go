package dsl

import "github.com/aretw0/maturity/pkg/domain"

// PillarBuilder provides a fluent API for configuring a pillar.
type PillarBuilder struct {
	b     *Builder
	index int
}

// Icon sets the pillar icon.
func (p *PillarBuilder) Icon(icon string) *PillarBuilder {
	p.b.q.Pillars[p.index].Icon = icon
	return p
}

// Weight sets the pillar weight used by the global score.
func (p *PillarBuilder) Weight(w float64) *PillarBuilder {
	p.b.q.Pillars[p.index].Weight = w
	return p
}

// QuestionBuilder provides a fluent API for configuring a question.
type QuestionBuilder struct {
	q *domain.Question
}

// Text sets the question prompt.
func (qb *QuestionBuilder) Text(text string) *QuestionBuilder {
	qb.q.Text = text
	return qb
}

// Help sets the optional help text.
func (qb *QuestionBuilder) Help(help string) *QuestionBuilder {
	qb.q.Help = help
	return qb
}

// OptionSetting configures an option.
type OptionSetting func(*domain.Option)

// Next links the option to the following question. Without it the option is terminal.
func Next(id domain.QuestionID) OptionSetting {
	return func(o *domain.Option) {
		o.NextQuestionID = id
	}
}

// Tags attaches recommendation tags to the option.
func Tags(tags ...string) OptionSetting {
	return func(o *domain.Option) {
		o.Tags = append(o.Tags, tags...)
	}
}

// Option appends an answer to the question.
func (qb *QuestionBuilder) Option(id domain.OptionID, label string, score int, settings ...OptionSetting) *QuestionBuilder {
	o := domain.Option{ID: id, Label: label, Score: score}
	for _, s := range settings {
		s(&o)
	}
	qb.q.Options = append(qb.q.Options, o)
	return qb
}

// Build returns the underlying domain.Question.
func (qb *QuestionBuilder) Build() domain.Question {
	return *qb.q
}
