package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/report"
	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	tests := []struct {
		percentage int
		want       string
	}{
		{0, "░░░░░░░░░░"},
		{9, "░░░░░░░░░░"},
		{10, "█░░░░░░░░░"},
		{83, "████████░░"},
		{100, "██████████"},
		{150, "██████████"},
		{-5, "░░░░░░░░░░"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, report.Bar(tt.percentage), "percentage %d", tt.percentage)
	}
}

func results() *domain.Results {
	return &domain.Results{
		Pillars: []domain.PillarResult{
			{PillarID: "GOV", Name: "Governance", Icon: "🏛️", Percentage: 83, Level: domain.LevelBand{ID: "high", Label: "High"}, QuestionsAnswered: 3},
			{PillarID: "DATA", Name: "Données", Percentage: 0, Level: domain.LevelBand{ID: "low", Label: "Low"}},
		},
		OverallPercentage: 83,
		GlobalLevel:       domain.LevelBand{ID: "advanced", Label: "Advanced"},
		LevelDescription:  "Well on the way.",
		Reliability:       domain.Reliability{Status: domain.ReliabilityPartial, MissingQuestions: 7, MissingPillars: 4},
		Recommendations: []domain.Recommendation{
			{Text: "Write a policy.", PillarID: "GOV", PillarName: "Governance", PillarIcon: "🏛️"},
			{Text: "Hire a champion.", PillarName: "General", PillarIcon: "💡"},
			{Text: "Review yearly.", PillarID: "GOV", PillarName: "Governance", PillarIcon: "🏛️"},
		},
		AnsweredCount: 3,
	}
}

func TestGroupRecommendations(t *testing.T) {
	groups := report.GroupRecommendations(results().Recommendations)

	assert.Equal(t, []report.Group{
		{Name: "Governance", Icon: "🏛️", Items: []string{"Write a policy.", "Review yearly."}},
		{Name: "General", Icon: "💡", Items: []string{"Hire a champion."}},
	}, groups)
}

func TestText(t *testing.T) {
	at := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	out := report.Text(results(), report.Options{Title: "AI maturity", GeneratedAt: at})

	assert.Contains(t, out, "AI MATURITY")
	assert.Contains(t, out, "📊 OVERALL SCORE: 83%")
	assert.Contains(t, out, "📈 LEVEL: Advanced")
	assert.Contains(t, out, "Partial result")
	assert.Contains(t, out, "🏛️ Governance                     ████████░░ 83% (High)")
	// Names are padded by display width, not bytes.
	assert.Contains(t, out, "Données                        ░░░░░░░░░░ 0% (Low)")
	assert.Contains(t, out, "🏛️ Governance:\n   • Write a policy.\n   • Review yearly.\n")
	assert.Contains(t, out, "Generated: 2026-03-01 14:30:00")
	assert.True(t, strings.HasSuffix(out, "Questions answered: 3\n"))
}

func TestMarkdown(t *testing.T) {
	out := report.Markdown(results(), report.Options{})

	assert.Contains(t, out, "# Maturity assessment results")
	assert.Contains(t, out, "**Overall score:** 83% · **Level:** Advanced")
	assert.Contains(t, out, "7 more answer(s) and 4 more pillar(s)")
	assert.Contains(t, out, "| 🏛️ Governance | `████████░░` 83% | High | 3 |")
	assert.Contains(t, out, "### 💡 General\n\n- Hire a champion.")
	assert.NotContains(t, out, "generated")
}
