package observability

import (
	"context"

	"github.com/aretw0/maturity/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "maturity"

// Metrics holds the collectors fed by the engine hooks.
type Metrics struct {
	SessionsStarted   prometheus.Counter
	SessionsCompleted prometheus.Counter
	QuestionVisits    *prometheus.CounterVec
	Answers           *prometheus.CounterVec
	AnswerScores      *prometheus.HistogramVec
	Backs             prometheus.Counter
	AnsweredPerRun    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Sessions positioned on the entry question.",
		}),
		SessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_completed_total",
			Help:      "Sessions that advanced past a terminal option.",
		}),
		QuestionVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "question_visits_total",
			Help:      "Total number of question visits.",
		}, []string{"question_id"}),
		Answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Answers recorded per pillar.",
		}, []string{"pillar_id"}),
		AnswerScores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answer_score",
			Help:      "Distribution of option scores per pillar.",
			Buckets:   []float64{0, 1, 2, 3, 4},
		}, []string{"pillar_id"}),
		Backs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "back_navigations_total",
			Help:      "Backward navigations.",
		}),
		AnsweredPerRun: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answered_questions",
			Help:      "Questions answered by completed sessions.",
			Buckets:   prometheus.LinearBuckets(5, 5, 8),
		}),
	}

	for _, c := range []prometheus.Collector{
		m.SessionsStarted, m.SessionsCompleted, m.QuestionVisits,
		m.Answers, m.AnswerScores, m.Backs, m.AnsweredPerRun,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStart: func(context.Context, *domain.QuestionEvent) {
			m.SessionsStarted.Inc()
		},
		OnQuestionEnter: func(_ context.Context, e *domain.QuestionEvent) {
			m.QuestionVisits.WithLabelValues(string(e.QuestionID)).Inc()
		},
		OnAnswer: func(_ context.Context, e *domain.AnswerEvent) {
			pillar := string(e.Answer.PillarID)
			m.Answers.WithLabelValues(pillar).Inc()
			m.AnswerScores.WithLabelValues(pillar).Observe(float64(e.Answer.Score))
		},
		OnBack: func(context.Context, *domain.QuestionEvent) {
			m.Backs.Inc()
		},
		OnComplete: func(_ context.Context, e *domain.CompleteEvent) {
			m.SessionsCompleted.Inc()
			m.AnsweredPerRun.Observe(float64(e.AnsweredCount))
		},
	}
}
