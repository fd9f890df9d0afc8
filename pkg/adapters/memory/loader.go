package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/maturity/internal/compiler"
	"github.com/aretw0/maturity/internal/validator"
	"github.com/aretw0/maturity/pkg/domain"
)

// Loader implements ports.QuestionnaireLoader over a questionnaire held in memory.
type Loader struct {
	q *domain.Questionnaire
}

// NewLoader wraps an already built questionnaire. It is validated on Load.
func NewLoader(q *domain.Questionnaire) *Loader {
	return &Loader{q: q}
}

// NewFromDocument parses a raw document (JSON, YAML or TOML).
// This handles decoding and validation up front, improving DX for tests.
func NewFromDocument(data []byte, format compiler.Format) (*Loader, error) {
	q, err := compiler.NewParser().Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return &Loader{q: q}, nil
}

// Load returns the questionnaire after validating it.
func (l *Loader) Load(ctx context.Context) (*domain.Questionnaire, error) {
	if l.q == nil {
		return nil, fmt.Errorf("%w: no questionnaire", domain.ErrQuestionnaireInvalid)
	}
	if err := validator.Validate(l.q); err != nil {
		return nil, err
	}
	return l.q, nil
}
