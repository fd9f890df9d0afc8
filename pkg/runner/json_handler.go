package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/maturity/pkg/domain"
)

// Message types emitted by JSONHandler, one JSON object per line.
const (
	MessageQuestion = "question"
	MessageResults  = "results"
	MessageSystem   = "system"
)

// Message is one line of JSONHandler output.
type Message struct {
	Type    string          `json:"type"`
	View    *domain.View    `json:"view,omitempty"`
	Results *domain.Results `json:"results,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Reply is the structured form of a JSONHandler input line.
// Plain strings and JSON strings are accepted as well.
type Reply struct {
	OptionID string `json:"option_id,omitempty"`
	Command  string `json:"command,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) emit(msg Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(msg)
}

func (h *JSONHandler) ShowQuestion(ctx context.Context, view *domain.View) error {
	return h.emit(Message{Type: MessageQuestion, View: view})
}

func (h *JSONHandler) ShowResults(ctx context.Context, results *domain.Results) error {
	return h.emit(Message{Type: MessageResults, Results: results})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.emit(Message{Type: MessageSystem, Message: msg})
}

// Input reads one line: {"option_id": "x"}, {"command": "back"}, "x" or x.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(text) == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var reply Reply
	if strings.HasPrefix(text, "{") && json.Unmarshal([]byte(text), &reply) == nil {
		if reply.Command != "" {
			return SanitizeInput(reply.Command)
		}
		return SanitizeInput(reply.OptionID)
	}

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return SanitizeInput(val)
	}
	return SanitizeInput(text)
}
