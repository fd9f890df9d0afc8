package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/report"
)

// TextHandler implements the human-facing terminal interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	Title    string

	now       func() time.Time
	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the markdown renderer used for questions.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithReportTitle sets the title printed above the results.
func WithReportTitle(title string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Title = title
	}
}

func (h *TextHandler) defaultTitle(title string) {
	if h.Title == "" {
		h.Title = title
	}
}

// WithClock overrides the timestamp printed in the results footer.
func WithClock(now func() time.Time) TextHandlerOption {
	return func(h *TextHandler) {
		h.now = now
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// initPump starts the reader goroutine so Input can honour context cancellation.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

func (h *TextHandler) ShowQuestion(ctx context.Context, view *domain.View) error {
	md := QuestionMarkdown(view)
	output := md
	if h.Renderer != nil {
		if rendered, err := h.Renderer(md); err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimRight(output, "\n"))
	return err
}

func (h *TextHandler) ShowResults(ctx context.Context, results *domain.Results) error {
	fmt.Fprintln(h.Writer)
	return report.WriteText(h.Writer, results, report.Options{Title: h.Title, GeneratedAt: h.now()})
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(res.text)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}

// QuestionMarkdown renders a view as markdown: pillar heading, question,
// numbered options with the current selection marked, then a progress line.
func QuestionMarkdown(view *domain.View) string {
	var sb strings.Builder

	pillar := view.Pillar.Name
	if view.Pillar.Icon != "" {
		pillar = view.Pillar.Icon + " " + pillar
	}
	fmt.Fprintf(&sb, "### %s · Question %d/%d\n\n", pillar, view.Position, view.Total)
	fmt.Fprintf(&sb, "**%s**\n\n", view.Text)
	if view.Help != "" {
		fmt.Fprintf(&sb, "_%s_\n\n", view.Help)
	}

	for i, o := range view.Options {
		marker := ""
		if o.Selected {
			marker = " ✓"
		}
		fmt.Fprintf(&sb, "%d. %s%s\n", i+1, o.Label, marker)
	}

	fmt.Fprintf(&sb, "\nProgress: %s %d%%\n", report.Bar(view.Progress), view.Progress)
	return sb.String()
}
