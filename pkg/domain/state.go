package domain

import "time"

// SessionStatus defines the traversal mode of a session.
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"    // Questions remain to be answered
	StatusCompleted SessionStatus = "completed" // A terminal option was advanced past
)

// AnswerRecord is the answer given to one question.
// Score, Tags and PillarID are copied from the option at record time.
type AnswerRecord struct {
	QuestionID QuestionID `json:"question_id"`
	OptionID   OptionID   `json:"option_id"`
	Score      int        `json:"score"`
	Tags       []string   `json:"tags,omitempty"`
	PillarID   PillarID   `json:"pillar_id"`
}

// State represents the current snapshot of a session.
type State struct {
	// SessionID identifies the session owning this state.
	SessionID string `json:"session_id"`

	// CurrentQuestionID is the question being displayed. It is always the top of History.
	CurrentQuestionID QuestionID `json:"current_question_id"`

	// History is the visited-question stack, starting with the entry question.
	History []QuestionID `json:"history"`

	// Answers holds one record per answered question. Keys are a subset of History.
	Answers map[QuestionID]AnswerRecord `json:"answers"`

	// Status indicates whether the traversal is still running.
	Status SessionStatus `json:"status"`

	// UpdatedAt is stamped by the engine on every mutation.
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed holds the encrypted snapshot when a store encrypts at rest.
	// Engines never read or set it.
	Sealed []byte `json:"sealed,omitempty"`
}

// NewState creates a clean state starting at the entry question.
func NewState(sessionID string, entry QuestionID) *State {
	return &State{
		SessionID:         sessionID,
		CurrentQuestionID: entry,
		History:           []QuestionID{entry},
		Answers:           make(map[QuestionID]AnswerRecord),
		Status:            StatusActive,
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.History = append([]QuestionID(nil), s.History...)
	c.Sealed = append([]byte(nil), s.Sealed...)
	c.Answers = make(map[QuestionID]AnswerRecord, len(s.Answers))
	for k, v := range s.Answers {
		v.Tags = append([]string(nil), v.Tags...)
		c.Answers[k] = v
	}
	return &c
}

// IsCompleted reports whether the traversal has ended.
func (s *State) IsCompleted() bool {
	return s.Status == StatusCompleted
}

// OrderedAnswers returns the recorded answers in history order.
func (s *State) OrderedAnswers() []AnswerRecord {
	out := make([]AnswerRecord, 0, len(s.Answers))
	for _, id := range s.History {
		if a, ok := s.Answers[id]; ok {
			out = append(out, a)
		}
	}
	return out
}
