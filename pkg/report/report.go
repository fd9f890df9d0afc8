// Package report renders scored results as a plain-text export or as Markdown.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/maturity/pkg/domain"
	"github.com/mattn/go-runewidth"
)

const (
	barCells  = 10
	nameWidth = 30
	ruleWidth = 63
)

// Options controls report headers.
type Options struct {
	Title       string
	GeneratedAt time.Time
}

func (o Options) title() string {
	if o.Title == "" {
		return "MATURITY ASSESSMENT RESULTS"
	}
	return strings.ToUpper(o.Title)
}

// Bar draws a ten-cell gauge: one filled cell per full 10%.
func Bar(percentage int) string {
	filled := min(max(percentage/10, 0), barCells)
	return strings.Repeat("█", filled) + strings.Repeat("░", barCells-filled)
}

// Group is the recommendations of one pillar (or the general bucket), in rank order.
type Group struct {
	Name  string
	Icon  string
	Items []string
}

// GroupRecommendations buckets ranked recommendations by pillar, keeping the
// order in which each pillar first appears.
func GroupRecommendations(recs []domain.Recommendation) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, r := range recs {
		key := string(r.PillarID) + "\x00" + r.PillarName
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Name: r.PillarName, Icon: r.PillarIcon})
		}
		groups[i].Items = append(groups[i].Items, r.Text)
	}
	return groups
}

func heading(name, icon string) string {
	if icon == "" {
		return name
	}
	return icon + " " + name
}

func centered(s string) string {
	pad := (ruleWidth - runewidth.StringWidth(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

// WriteText writes the plain-text export of r.
func WriteText(w io.Writer, r *domain.Results, opts Options) error {
	double := strings.Repeat("═", ruleWidth)
	single := strings.Repeat("─", ruleWidth)
	var sb strings.Builder

	sb.WriteString(double + "\n")
	sb.WriteString(centered(opts.title()) + "\n")
	sb.WriteString(double + "\n\n")
	fmt.Fprintf(&sb, "📊 OVERALL SCORE: %d%%\n", r.OverallPercentage)
	fmt.Fprintf(&sb, "📈 LEVEL: %s\n", r.GlobalLevel.Label)
	if r.LevelDescription != "" {
		fmt.Fprintf(&sb, "   %s\n", r.LevelDescription)
	}
	if r.Reliability.Status == domain.ReliabilityPartial {
		sb.WriteString("⚠️  Partial result: answer more questions for a reliable score.\n")
	}
	sb.WriteString("\n")

	sb.WriteString(single + "\n")
	sb.WriteString(centered("SCORES BY PILLAR") + "\n")
	sb.WriteString(single + "\n\n")
	for _, p := range r.Pillars {
		name := runewidth.FillRight(p.Name, nameWidth)
		if p.Icon != "" {
			name = p.Icon + " " + name
		}
		fmt.Fprintf(&sb, "%s %s %d%% (%s)\n", name, Bar(p.Percentage), p.Percentage, p.Level.Label)
	}

	sb.WriteString("\n" + single + "\n")
	sb.WriteString(centered("RECOMMENDATIONS") + "\n")
	sb.WriteString(single + "\n\n")
	for _, g := range GroupRecommendations(r.Recommendations) {
		fmt.Fprintf(&sb, "%s:\n", heading(g.Name, g.Icon))
		for _, item := range g.Items {
			fmt.Fprintf(&sb, "   • %s\n", item)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(double + "\n")
	if !opts.GeneratedAt.IsZero() {
		fmt.Fprintf(&sb, "Generated: %s\n", opts.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(&sb, "Questions answered: %d\n", r.AnsweredCount)

	_, err := io.WriteString(w, sb.String())
	return err
}

// Text returns the plain-text export of r.
func Text(r *domain.Results, opts Options) string {
	var sb strings.Builder
	_ = WriteText(&sb, r, opts)
	return sb.String()
}

// Markdown renders r as a Markdown document.
func Markdown(r *domain.Results, opts Options) string {
	var sb strings.Builder

	title := opts.Title
	if title == "" {
		title = "Maturity assessment results"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "**Overall score:** %d%% · **Level:** %s\n\n", r.OverallPercentage, r.GlobalLevel.Label)
	if r.LevelDescription != "" {
		fmt.Fprintf(&sb, "> %s\n\n", r.LevelDescription)
	}
	if r.Reliability.Status == domain.ReliabilityPartial {
		fmt.Fprintf(&sb, "_Partial result: %d more answer(s) and %d more pillar(s) needed for a reliable score._\n\n",
			r.Reliability.MissingQuestions, r.Reliability.MissingPillars)
	}

	sb.WriteString("## Scores by pillar\n\n")
	sb.WriteString("| Pillar | Score | Level | Answered |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, p := range r.Pillars {
		fmt.Fprintf(&sb, "| %s | `%s` %d%% | %s | %d |\n",
			heading(p.Name, p.Icon), Bar(p.Percentage), p.Percentage, p.Level.Label, p.QuestionsAnswered)
	}

	if len(r.Recommendations) > 0 {
		sb.WriteString("\n## Recommendations\n")
		for _, g := range GroupRecommendations(r.Recommendations) {
			fmt.Fprintf(&sb, "\n### %s\n\n", heading(g.Name, g.Icon))
			for _, item := range g.Items {
				fmt.Fprintf(&sb, "- %s\n", item)
			}
		}
	}

	fmt.Fprintf(&sb, "\n---\n\n%d question(s) answered", r.AnsweredCount)
	if !opts.GeneratedAt.IsZero() {
		fmt.Fprintf(&sb, " · generated %s", opts.GeneratedAt.Format("2006-01-02 15:04"))
	}
	sb.WriteString("\n")
	return sb.String()
}
