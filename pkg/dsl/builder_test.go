package dsl

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/schema"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	// 1. Build the questionnaire using DSL
	b := New()

	b.Pillar("GOV", "Governance").Icon("🏛️").Weight(1.5)

	b.Question("q1", "GOV").
		Text("Is there an AI policy?").
		Option("yes", "Yes", 4, Next("q2")).
		Option("no", "No", 0, Tags("GOV_no_policy"))

	b.Question("q2", "GOV").
		Text("Is it reviewed?").
		Option("yes", "Yes", 4)

	b.RecommendTag("GOV_no_policy", "Write a policy.")

	// 2. Compile to Loader
	loader, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	q, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// 3. Verify structure
	if q.Metadata.EntryQuestionID != "q1" {
		t.Errorf("Expected entry 'q1', got '%s'", q.Metadata.EntryQuestionID)
	}
	if len(q.Order) != 2 || q.Order[0] != "q1" || q.Order[1] != "q2" {
		t.Errorf("Expected order [q1 q2], got %v", q.Order)
	}
	if q.Pillars[0].Weight != 1.5 || q.Pillars[0].Icon != "🏛️" {
		t.Errorf("Pillar not configured: %+v", q.Pillars[0])
	}
	if len(q.Levels.Pillar) != 3 || len(q.Levels.Global) != 3 {
		t.Errorf("Expected default bands, got %d/%d", len(q.Levels.Pillar), len(q.Levels.Global))
	}

	q1, _ := q.Question("q1")
	no, ok := q1.Option("no")
	if !ok {
		t.Fatal("option 'no' missing")
	}
	if !no.IsTerminal() || len(no.Tags) != 1 {
		t.Errorf("Unexpected option: %+v", no)
	}
}

func TestBuilder_RejectsDanglingNext(t *testing.T) {
	b := New()
	b.Pillar("GOV", "Governance")
	b.Question("q1", "GOV").Option("a", "A", 1, Next("ghost"))

	_, err := b.Build()
	if err == nil {
		t.Fatal("Build() should fail for a dangling next question")
	}
	if !errors.Is(err, domain.ErrQuestionnaireInvalid) {
		t.Errorf("Expected ErrQuestionnaireInvalid, got %v", err)
	}
	if len(schema.ValidationErrors(err)) != 1 {
		t.Errorf("Expected exactly one validation error, got %v", err)
	}
}
