package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/maturity/internal/logging"
	"github.com/aretw0/maturity/internal/runtime"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/dsl"
	"github.com/aretw0/maturity/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questionnaire(t *testing.T) *domain.Questionnaire {
	t.Helper()
	b := dsl.New()
	b.Pillar("GOV", "Governance")
	b.Question("q1", "GOV").Option("a", "A", 3, dsl.Next("q2"))
	b.Question("q2", "GOV").Option("b", "B", 1)
	q, err := b.Questionnaire()
	require.NoError(t, err)
	return q
}

// counter sums every sample of the named family.
func counter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if c := m.GetCounter(); c != nil {
				total += c.GetValue()
			}
			if h := m.GetHistogram(); h != nil {
				total += float64(h.GetSampleCount())
			}
		}
	}
	return total
}

func TestMetrics_RecordsLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	engine := runtime.NewEngine(questionnaire(t), runtime.WithLifecycleHooks(m.Hooks()))
	ctx := context.Background()

	s, _ := engine.Start(ctx, "s1")
	s, _ = engine.RecordAnswer(ctx, s, "q1", "a")
	s, _ = engine.Advance(ctx, s)
	s, _, _ = engine.GoBack(ctx, s)
	s, _ = engine.Advance(ctx, s)
	s, _ = engine.RecordAnswer(ctx, s, "q2", "b")
	_, err = engine.Advance(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, 1.0, counter(t, reg, "maturity_sessions_started_total"))
	assert.Equal(t, 1.0, counter(t, reg, "maturity_sessions_completed_total"))
	assert.Equal(t, 2.0, counter(t, reg, "maturity_answers_total"))
	assert.Equal(t, 1.0, counter(t, reg, "maturity_back_navigations_total"))
	assert.Equal(t, 4.0, counter(t, reg, "maturity_question_visits_total"))
	assert.Equal(t, 1.0, counter(t, reg, "maturity_answered_questions"))
}

func TestMetrics_DoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestCombine_CallsInOrder(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnAnswer: func(context.Context, *domain.AnswerEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnAnswer:   func(context.Context, *domain.AnswerEvent) { calls = append(calls, "b") },
		OnComplete: func(context.Context, *domain.CompleteEvent) { calls = append(calls, "done") },
	}

	hooks := observability.Combine(a, domain.LifecycleHooks{}, b)
	hooks.OnAnswer(context.Background(), &domain.AnswerEvent{})
	hooks.OnComplete(context.Background(), &domain.CompleteEvent{})

	assert.Equal(t, []string{"a", "b", "done"}, calls)
	assert.Nil(t, hooks.OnBack)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithFormat(&buf, slog.LevelDebug, "text")

	engine := runtime.NewEngine(questionnaire(t), runtime.WithLifecycleHooks(observability.LoggingHooks(logger)))
	ctx := context.Background()
	s, _ := engine.Start(ctx, "s1")
	_, err := engine.RecordAnswer(ctx, s, "q1", "a")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "session_start")
	assert.Contains(t, out, "option_id=a")
}
