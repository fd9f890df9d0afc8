package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/maturity/pkg/domain"
)

// EndNodeID is the synthetic node every terminal option points to.
const EndNodeID = "__end__"

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedQuestions []domain.QuestionID
	CurrentQuestion  domain.QuestionID
	Completed        bool
}

// OverlayFromState builds an overlay from a session state.
func OverlayFromState(s *domain.State) *GraphOverlay {
	if s == nil {
		return nil
	}
	o := &GraphOverlay{
		VisitedQuestions: append([]domain.QuestionID(nil), s.History...),
		Completed:        s.IsCompleted(),
	}
	if !o.Completed {
		o.CurrentQuestion = s.CurrentQuestionID
	}
	return o
}

type edge struct {
	to     string
	labels []string
}

// GenerateMermaid produces a Mermaid flowchart of the questionnaire.
// Questions are grouped in one subgraph per pillar:
// - Entry: ((Circle))
// - Question: [/Parallelogram/]
// - End: (((Double circle)))
// Options sharing a target are merged into one edge labelled "label (score)".
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(q *domain.Questionnaire, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	byPillar := make(map[domain.PillarID][]*domain.Question)
	for _, question := range q.OrderedQuestions() {
		byPillar[question.PillarID] = append(byPillar[question.PillarID], question)
	}

	for _, p := range q.Pillars {
		questions := byPillar[p.ID]
		if len(questions) == 0 {
			continue
		}
		title := p.Name
		if p.Icon != "" {
			title = p.Icon + " " + p.Name
		}
		fmt.Fprintf(&sb, "    subgraph %s[\"%s\"]\n", sanitizeMermaidID(string(p.ID)), escape(title))
		for _, question := range questions {
			safeID := sanitizeMermaidID(string(question.ID))
			opener, closer := "[/", "/]"
			if question.ID == q.Metadata.EntryQuestionID {
				opener, closer = "((", "))"
			}
			fmt.Fprintf(&sb, "        %s%s\"%s\"%s\n", safeID, opener, question.ID, closer)
		}
		sb.WriteString("    end\n")
	}
	fmt.Fprintf(&sb, "    %s(((\"end\")))\n", EndNodeID)

	for _, question := range q.OrderedQuestions() {
		safeID := sanitizeMermaidID(string(question.ID))
		for _, e := range edges(question) {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, escape(strings.Join(e.labels, " / ")), e.to)
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedQuestions {
			safeID := sanitizeMermaidID(string(id))
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.Completed {
			fmt.Fprintf(&sb, "    class %s current;\n", EndNodeID)
		} else if overlay.CurrentQuestion != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(string(overlay.CurrentQuestion)))
		}
	}

	return sb.String()
}

// edges groups the options of a question by target, in option order.
func edges(question *domain.Question) []edge {
	var out []edge
	index := make(map[string]int)
	for _, opt := range question.Options {
		to := EndNodeID
		if !opt.IsTerminal() {
			to = sanitizeMermaidID(string(opt.NextQuestionID))
		}
		label := fmt.Sprintf("%s (%d)", opt.Label, opt.Score)
		if i, ok := index[to]; ok {
			out[i].labels = append(out[i].labels, label)
			continue
		}
		index[to] = len(out)
		out = append(out, edge{to: to, labels: []string{label}})
	}
	return out
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
